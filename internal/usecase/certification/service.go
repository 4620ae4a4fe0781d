package certification

import (
	"context"
	"errors"
	"fmt"

	"jobmatch/internal/domain/profile"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTopN             = 10
	MessageNoCertifications = "No certification recommendations available"
)

type Recommender interface {
	ProbeHealth(ctx context.Context) error
	RecommendCertifications(ctx context.Context, features profile.Features, targetRole string, topN int) (mlclient.CertificationResult, error)
}

type Result struct {
	Message        string
	Certifications []mlclient.Certification
	SkillGap       []string
	Profile        profile.Summary
}

type Service struct {
	profiles    repository.ProfileRepository
	recommender Recommender
	logger      *zap.Logger
}

func NewService(profiles repository.ProfileRepository, recommender Recommender, log *zap.Logger) *Service {
	return &Service{profiles: profiles, recommender: recommender, logger: logger.OrNop(log)}
}

// Recommend suggests certifications for the candidate, optionally aimed at a
// target role. An unavailable or failing ML subsystem yields an empty list.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, targetRole string) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, usecase.ErrUnauthorized
	}

	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Result{}, usecase.ErrProfileNotFound
		}
		return Result{}, fmt.Errorf("%w: load profile: %v", usecase.ErrStoreUnavailable, err)
	}

	res := Result{
		Message:        MessageNoCertifications,
		Certifications: []mlclient.Certification{},
		SkillGap:       []string{},
		Profile:        p.Summary(),
	}
	if s.recommender == nil {
		return res, nil
	}

	log := s.logger.With(zap.String("user_id", userID.String()))
	if err := s.recommender.ProbeHealth(ctx); err != nil {
		log.Warn("[Certifications] ML service unavailable", zap.Error(err))
		return res, nil
	}

	out, err := s.recommender.RecommendCertifications(ctx, profile.Extract(p), targetRole, defaultTopN)
	if err != nil {
		log.Warn("[Certifications] ML call failed", zap.Error(err))
		return res, nil
	}

	if len(out.Certifications) > 0 {
		res.Certifications = out.Certifications
		res.Message = fmt.Sprintf("Found %d certification recommendations", len(out.Certifications))
	}
	if out.SkillGap != nil {
		res.SkillGap = out.SkillGap
	}
	return res, nil
}
