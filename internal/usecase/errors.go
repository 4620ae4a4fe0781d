package usecase

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrProfileNotFound  = errors.New("candidate profile not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
