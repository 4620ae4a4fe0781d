package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (profile.CandidateProfile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (profile.CandidateProfile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, skills, education, experience, languages, certifications, city, country
		 FROM candidate_profiles
		 WHERE user_id = $1`,
		userID,
	)

	var (
		p                               profile.CandidateProfile
		edu, exp, langs, certifications []byte
	)
	if err := row.Scan(&p.UserID, &p.Skills, &edu, &exp, &langs, &certifications, &p.City, &p.Country); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.CandidateProfile{}, ErrProfileNotFound
		}
		return profile.CandidateProfile{}, err
	}

	if err := decodeJSONB(edu, &p.Education); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("decode education: %w", err)
	}
	if err := decodeJSONB(exp, &p.Experience); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("decode experience: %w", err)
	}
	if err := decodeJSONB(langs, &p.Languages); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("decode languages: %w", err)
	}
	if err := decodeJSONB(certifications, &p.Certifications); err != nil {
		return profile.CandidateProfile{}, fmt.Errorf("decode certifications: %w", err)
	}
	return p, nil
}

func decodeJSONB(b []byte, out any) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, out)
}
