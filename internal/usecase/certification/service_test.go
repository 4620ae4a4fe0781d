package certification

import (
	"context"
	"errors"
	"testing"

	"jobmatch/internal/domain/profile"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeProfiles struct {
	p   profile.CandidateProfile
	err error
}

func (f fakeProfiles) FindByUserID(_ context.Context, userID uuid.UUID) (profile.CandidateProfile, error) {
	if f.err != nil {
		return profile.CandidateProfile{}, f.err
	}
	if f.p.UserID != userID {
		return profile.CandidateProfile{}, repository.ErrProfileNotFound
	}
	return f.p, nil
}

type fakeRecommender struct {
	healthErr error
	err       error
	out       mlclient.CertificationResult
	calls     int
	gotRole   string
	gotSkills string
}

func (f *fakeRecommender) ProbeHealth(context.Context) error { return f.healthErr }

func (f *fakeRecommender) RecommendCertifications(_ context.Context, features profile.Features, targetRole string, _ int) (mlclient.CertificationResult, error) {
	f.calls++
	f.gotRole = targetRole
	f.gotSkills = features.Skills
	return f.out, f.err
}

func newProfile() profile.CandidateProfile {
	return profile.CandidateProfile{UserID: uuid.New(), Skills: []string{"Go", "Docker"}}
}

func TestService_Recommend(t *testing.T) {
	p := newProfile()
	rec := &fakeRecommender{out: mlclient.CertificationResult{
		Certifications: []mlclient.Certification{{Title: "CKA"}, {Title: "AWS SAA"}},
		SkillGap:       []string{"Kubernetes"},
	}}

	res, err := NewService(fakeProfiles{p: p}, rec, zap.NewNop()).Recommend(context.Background(), p.UserID, "DevOps Engineer")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Message != "Found 2 certification recommendations" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if rec.gotRole != "DevOps Engineer" || rec.gotSkills != "Go, Docker" {
		t.Fatalf("unexpected request: role=%q skills=%q", rec.gotRole, rec.gotSkills)
	}
	if len(res.SkillGap) != 1 || len(res.Profile.Skills) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestService_DegradesWhenMLFails(t *testing.T) {
	p := newProfile()
	cases := []struct {
		name string
		rec  *fakeRecommender
	}{
		{name: "unavailable", rec: &fakeRecommender{healthErr: mlclient.ErrUnavailable}},
		{name: "call failed", rec: &fakeRecommender{err: mlclient.ErrScoringFailed}},
		{name: "empty", rec: &fakeRecommender{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewService(fakeProfiles{p: p}, tc.rec, zap.NewNop()).Recommend(context.Background(), p.UserID, "")
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Message != MessageNoCertifications || len(res.Certifications) != 0 {
				t.Fatalf("unexpected result: %+v", res)
			}
			if res.Certifications == nil || res.SkillGap == nil {
				t.Fatalf("expected empty slices, not nil")
			}
		})
	}
}

func TestService_ProfileErrors(t *testing.T) {
	svc := NewService(fakeProfiles{p: newProfile()}, &fakeRecommender{}, zap.NewNop())
	if _, err := svc.Recommend(context.Background(), uuid.New(), ""); !errors.Is(err, usecase.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.Recommend(context.Background(), uuid.Nil, ""); !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	broken := NewService(fakeProfiles{err: errors.New("dial tcp: refused")}, &fakeRecommender{}, zap.NewNop())
	if _, err := broken.Recommend(context.Background(), uuid.New(), ""); !errors.Is(err, usecase.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
