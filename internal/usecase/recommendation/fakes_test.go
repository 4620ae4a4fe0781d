package recommendation

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("connection refused")

// fakeJobRepo mirrors the Postgres queries over an in-memory slice.
type fakeJobRepo struct {
	mu   sync.Mutex
	jobs []job.Posting

	countErr     error
	byIDsErr     error
	fallbackErr  error
	overlapCalls [][]string
	termCalls    []repository.TermFilter
	byIDsCalls   int
	heurCalls    int
}

var baseTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// add appends a posting; later additions are more recent.
func (f *fakeJobRepo) add(title, company string, skills []string, active bool) job.Posting {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := job.Posting{
		ID:        uuid.New(),
		Title:     title,
		Company:   company,
		Skills:    skills,
		IsActive:  active,
		CreatedAt: baseTime.Add(time.Duration(len(f.jobs)) * time.Minute),
	}
	f.jobs = append(f.jobs, p)
	return p
}

func (f *fakeJobRepo) selectActive(limit int, exclude []uuid.UUID, pred func(job.Posting) bool) []job.Posting {
	ex := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		ex[id] = struct{}{}
	}
	out := make([]job.Posting, 0)
	for _, p := range f.jobs {
		if !p.IsActive {
			continue
		}
		if _, ok := ex[p.ID]; ok {
			continue
		}
		if pred(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeJobRepo) CountActive(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, p := range f.jobs {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeJobRepo) FindActiveByIDs(_ context.Context, ids []uuid.UUID) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byIDsCalls++
	if f.byIDsErr != nil {
		return nil, f.byIDsErr
	}
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return f.selectActive(0, nil, func(p job.Posting) bool {
		_, ok := want[p.ID]
		return ok
	}), nil
}

func (f *fakeJobRepo) FindActiveByCompanyOrRole(_ context.Context, companies, roles []string, limit int) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heurCalls++
	direct := func(p job.Posting) bool {
		for _, c := range companies {
			if p.Company == c {
				return true
			}
		}
		for _, r := range roles {
			if strings.EqualFold(p.Title, r) {
				return true
			}
		}
		return false
	}
	out := f.selectActive(0, nil, func(p job.Posting) bool {
		if direct(p) {
			return true
		}
		for _, r := range roles {
			if matching.ContainsFold(p.Description, r) {
				return true
			}
		}
		return false
	})
	sort.SliceStable(out, func(i, j int) bool { return direct(out[i]) && !direct(out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobRepo) FindActiveBySkillOverlap(_ context.Context, skills []string, exclude []uuid.UUID, limit int) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overlapCalls = append(f.overlapCalls, append([]string(nil), skills...))
	if f.fallbackErr != nil {
		return nil, f.fallbackErr
	}
	return f.selectActive(limit, exclude, func(p job.Posting) bool {
		return len(matching.OverlappingSkills(p.Skills, skills)) > 0
	}), nil
}

func (f *fakeJobRepo) FindActiveByTerms(_ context.Context, tf repository.TermFilter) ([]job.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.termCalls = append(f.termCalls, tf)
	if f.fallbackErr != nil {
		return nil, f.fallbackErr
	}
	return f.selectActive(tf.Limit, tf.Exclude, func(p job.Posting) bool {
		for _, t := range tf.Terms {
			if matching.ContainsFold(p.Title, t) || matching.ContainsFold(p.Description, t) {
				return true
			}
			for _, s := range p.Skills {
				if tf.SkillContainment && matching.ContainsFold(s, t) {
					return true
				}
				if !tf.SkillContainment && strings.EqualFold(s, t) {
					return true
				}
			}
		}
		return false
	}), nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]profile.CandidateProfile
	err      error
}

func (f fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (profile.CandidateProfile, error) {
	if f.err != nil {
		return profile.CandidateProfile{}, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return profile.CandidateProfile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

type fakeScorer struct {
	mu          sync.Mutex
	healthErr   error
	scoreErr    error
	recs        []mlclient.Recommendation
	probeCalls  int
	scoreCalls  int
	lastTopN    int
	lastFeature profile.Features
}

func (f *fakeScorer) ProbeHealth(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	return f.healthErr
}

func (f *fakeScorer) Score(_ context.Context, features profile.Features, topN int) ([]mlclient.Recommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scoreCalls++
	f.lastTopN = topN
	f.lastFeature = features
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.recs, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]mlclient.Recommendation
	sets  int
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*(out.(*[]mlclient.Recommendation)) = v
	return true, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = map[string][]mlclient.Recommendation{}
	}
	c.items[key] = value.([]mlclient.Recommendation)
	c.sets++
	return nil
}

func rec(jobID, company, role string, score float64, skills ...string) mlclient.Recommendation {
	return mlclient.Recommendation{
		JobID:          jobID,
		Company:        company,
		JobRole:        role,
		Score:          score,
		MatchingSkills: skills,
	}
}
