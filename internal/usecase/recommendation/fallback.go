package recommendation

import (
	"context"
	"sort"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeRecommended      Outcome = "recommended"
	OutcomeNoActiveJobs     Outcome = "no_active_jobs"
	OutcomeNoMatchingSkills Outcome = "no_matching_skills"
)

const broadTermMinRunes = 3

// StrategyInput is what a fallback strategy searches with. Exclude holds ids
// already selected by earlier strategies; Limit is the remaining room.
type StrategyInput struct {
	Skills  []string
	Exclude []uuid.UUID
	Limit   int
}

// Strategy yields candidate postings for the rule-based fallback. Strategies
// run in order; the matcher reduces their output once at the end.
type Strategy interface {
	Name() string
	Match(ctx context.Context, in StrategyInput) ([]job.Posting, error)
}

type FallbackResult struct {
	Jobs       []job.Ranked
	Outcome    Outcome
	Strategies []string
}

type FallbackMatcher struct {
	strategies []Strategy
	topN       int
	logger     *zap.Logger
}

func NewFallbackMatcher(jobs repository.JobRepository, topN int, log *zap.Logger) *FallbackMatcher {
	return NewFallbackMatcherWithStrategies(topN, log,
		ExactSkillOverlap{jobs: jobs},
		TermWidening{jobs: jobs},
		BroadWidening{jobs: jobs},
	)
}

func NewFallbackMatcherWithStrategies(topN int, log *zap.Logger, strategies ...Strategy) *FallbackMatcher {
	return &FallbackMatcher{strategies: strategies, topN: topN, logger: logger.OrNop(log)}
}

// Match runs the strategies in order until the cap is reached. totalActive is
// the store's active posting count; zero short-circuits without querying.
func (m *FallbackMatcher) Match(ctx context.Context, skills []string, totalActive int) (FallbackResult, error) {
	if totalActive <= 0 {
		return FallbackResult{Jobs: []job.Ranked{}, Outcome: OutcomeNoActiveJobs, Strategies: []string{}}, nil
	}

	skills = matching.NormalizeTerms(skills)

	collected := make([]job.Posting, 0, m.topN)
	selected := make([]uuid.UUID, 0, m.topN)
	seen := make(map[uuid.UUID]struct{}, m.topN)
	used := make([]string, 0, len(m.strategies))

	for _, s := range m.strategies {
		if len(selected) >= m.topN {
			break
		}
		found, err := s.Match(ctx, StrategyInput{
			Skills:  skills,
			Exclude: append([]uuid.UUID(nil), selected...),
			Limit:   m.topN - len(selected),
		})
		if err != nil {
			return FallbackResult{}, err
		}

		added := 0
		for _, p := range found {
			collected = append(collected, p)
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			selected = append(selected, p.ID)
			added++
		}
		if added > 0 {
			used = append(used, s.Name())
		}
		m.logger.Debug("[Recommend] fallback strategy",
			zap.String("strategy", s.Name()),
			zap.Int("found", len(found)),
			zap.Int("added", added),
		)
	}

	postings := dedupeByID(collected)
	out := make([]job.Ranked, 0, len(postings))
	for _, p := range postings {
		if !p.IsActive {
			continue
		}
		out = append(out, job.Ranked{
			Posting:    p,
			Annotation: job.Annotation{MatchingSkills: matching.OverlappingSkills(p.Skills, skills)},
			Provenance: job.ProvenanceFallback,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return job.Less(out[i], out[j]) })
	if len(out) > m.topN {
		out = out[:m.topN]
	}

	if len(out) == 0 {
		return FallbackResult{Jobs: out, Outcome: OutcomeNoMatchingSkills, Strategies: used}, nil
	}
	return FallbackResult{Jobs: out, Outcome: OutcomeRecommended, Strategies: used}, nil
}

// ExactSkillOverlap selects postings sharing a skill with the candidate, where
// either skill name contains the other.
type ExactSkillOverlap struct {
	jobs repository.JobRepository
}

func (ExactSkillOverlap) Name() string { return "exact-skill-overlap" }

func (s ExactSkillOverlap) Match(ctx context.Context, in StrategyInput) ([]job.Posting, error) {
	if len(in.Skills) == 0 {
		return nil, nil
	}
	return s.jobs.FindActiveBySkillOverlap(ctx, in.Skills, in.Exclude, in.Limit)
}

// TermWidening matches candidate skills against title and description, or
// exactly against job skills.
type TermWidening struct {
	jobs repository.JobRepository
}

func (TermWidening) Name() string { return "term-widening" }

func (s TermWidening) Match(ctx context.Context, in StrategyInput) ([]job.Posting, error) {
	if len(in.Skills) == 0 {
		return nil, nil
	}
	return s.jobs.FindActiveByTerms(ctx, repository.TermFilter{
		Terms:   in.Skills,
		Exclude: in.Exclude,
		Limit:   in.Limit,
	})
}

// BroadWidening adds the words of multi-word skills and lets job skills match
// by containment.
type BroadWidening struct {
	jobs repository.JobRepository
}

func (BroadWidening) Name() string { return "broad-widening" }

func (s BroadWidening) Match(ctx context.Context, in StrategyInput) ([]job.Posting, error) {
	if len(in.Skills) == 0 {
		return nil, nil
	}
	return s.jobs.FindActiveByTerms(ctx, repository.TermFilter{
		Terms:            matching.BroadTerms(in.Skills, broadTermMinRunes),
		SkillContainment: true,
		Exclude:          in.Exclude,
		Limit:            in.Limit,
	})
}

func dedupeByID(in []job.Posting) []job.Posting {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]job.Posting, 0, len(in))
	for _, p := range in {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
