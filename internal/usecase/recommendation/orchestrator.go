package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MessageRecommended      = "recommendations generated"
	MessageNoActiveJobs     = "no active jobs available"
	MessageNoMatchingSkills = "no jobs match your skill profile"
)

// cacheOpTimeout bounds each score cache read and write.
const cacheOpTimeout = 200 * time.Millisecond

type Scorer interface {
	ProbeHealth(ctx context.Context) error
	Score(ctx context.Context, features profile.Features, topN int) ([]mlclient.Recommendation, error)
}

type ScoreCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Usecase interface {
	Recommend(ctx context.Context, userID uuid.UUID) (Result, error)
}

type Debug struct {
	MLServiceUsed                bool
	AIRecommendationsCount       int
	FilteredRecommendationsCount int
	FinalJobsCount               int
	TotalActiveJobs              int
	ReconcileStage               Stage
	FallbackStrategies           []string
}

type Result struct {
	Message string
	Outcome Outcome
	Jobs    []job.Ranked
	Profile profile.Summary
	Debug   Debug
}

// Orchestrator sequences profile extraction, ML scoring, reconciliation and
// the rule-based fallback for one candidate.
type Orchestrator struct {
	profiles   repository.ProfileRepository
	jobs       repository.JobRepository
	scorer     Scorer
	cache      ScoreCache
	reconciler *Reconciler
	fallback   *FallbackMatcher
	topN       int
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewOrchestrator wires the pipeline. scorer and cache may be nil: without a
// scorer every request takes the fallback path, without a cache every
// healthy request scores.
func NewOrchestrator(profiles repository.ProfileRepository, jobs repository.JobRepository, scorer Scorer, cache ScoreCache, cfg config.RecommendConfig, log *zap.Logger) *Orchestrator {
	log = logger.OrNop(log)
	topN := config.ClampTopN(cfg.TopN)
	return &Orchestrator{
		profiles:   profiles,
		jobs:       jobs,
		scorer:     scorer,
		cache:      cache,
		reconciler: NewReconciler(jobs, topN, log),
		fallback:   NewFallbackMatcher(jobs, topN, log),
		topN:       topN,
		cacheTTL:   cfg.CacheTTL,
		logger:     log,
	}
}

func (o *Orchestrator) Recommend(ctx context.Context, userID uuid.UUID) (Result, error) {
	if userID == uuid.Nil {
		return Result{}, usecase.ErrUnauthorized
	}

	p, err := o.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return Result{}, usecase.ErrProfileNotFound
		}
		return Result{}, fmt.Errorf("%w: load profile: %v", usecase.ErrStoreUnavailable, err)
	}

	total, err := o.jobs.CountActive(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: count active jobs: %v", usecase.ErrStoreUnavailable, err)
	}

	res := Result{
		Profile: p.Summary(),
		Debug:   Debug{TotalActiveJobs: total, FallbackStrategies: []string{}},
	}

	features := profile.Extract(p)

	ranked := o.runMLPath(ctx, userID, features, &res.Debug)
	if len(ranked) > 0 {
		res.Debug.MLServiceUsed = true
		res.Outcome = OutcomeRecommended
	} else {
		fb, err := o.fallback.Match(ctx, p.Skills, total)
		if err != nil {
			return Result{}, fmt.Errorf("%w: fallback match: %v", usecase.ErrStoreUnavailable, err)
		}
		ranked = fb.Jobs
		res.Outcome = fb.Outcome
		res.Debug.FallbackStrategies = fb.Strategies
	}

	res.Jobs = o.finalize(ranked)
	res.Debug.FinalJobsCount = len(res.Jobs)
	res.Message = messageFor(res.Outcome)

	o.logger.Info("[Recommend] done",
		zap.String("user_id", userID.String()),
		zap.Bool("ml_used", res.Debug.MLServiceUsed),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("jobs", res.Debug.FinalJobsCount),
		zap.Int("total_active", total),
	)
	return res, nil
}

// runMLPath returns the reconciled ML results, or nil when the ML path is
// unavailable, unproductive or fails. It never fails the request.
func (o *Orchestrator) runMLPath(ctx context.Context, userID uuid.UUID, features profile.Features, dbg *Debug) (out []job.Ranked) {
	if o.scorer == nil {
		return nil
	}

	log := o.logger.With(zap.String("user_id", userID.String()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("[Recommend] ML path panicked, using fallback", zap.Any("panic", r))
			out = nil
		}
	}()

	if err := o.scorer.ProbeHealth(ctx); err != nil {
		log.Warn("[Recommend] ML service unavailable, using fallback", zap.Error(err))
		return nil
	}

	recs, err := o.score(ctx, features)
	if err != nil {
		log.Warn("[Recommend] ML scoring failed, using fallback", zap.Error(err))
		return nil
	}
	dbg.AIRecommendationsCount = len(recs)

	relevant := mlclient.FilterRelevant(recs)
	dbg.FilteredRecommendationsCount = len(relevant)
	if len(relevant) == 0 {
		log.Info("[Recommend] ML returned no relevant recommendations", zap.Int("raw", len(recs)))
		return nil
	}

	ranked, stage, err := o.reconciler.Reconcile(ctx, relevant)
	if err != nil {
		log.Warn("[Recommend] reconciliation failed, using fallback", zap.String("stage", string(stage)), zap.Error(err))
		return nil
	}
	dbg.ReconcileStage = stage
	if len(ranked) == 0 {
		log.Info("[Recommend] ML recommendations did not resolve to active jobs", zap.Int("filtered", len(relevant)))
	}
	return ranked
}

// score reads through the response cache when one is configured.
func (o *Orchestrator) score(ctx context.Context, features profile.Features) ([]mlclient.Recommendation, error) {
	useCache := o.cache != nil && o.cacheTTL > 0
	key := ""
	if useCache {
		key = ScoreCacheKey(features, o.topN)
		var cached []mlclient.Recommendation
		cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		hit, err := o.cache.GetJSON(cctx, key, &cached)
		cancel()
		switch {
		case err != nil:
			o.logger.Debug("[Cache] score GET failed", zap.String("key", key), zap.Error(err))
		case hit:
			o.logger.Debug("[Cache] score HIT", zap.String("key", key))
			return cached, nil
		}
	}

	recs, err := o.scorer.Score(ctx, features, o.topN)
	if err != nil {
		return nil, err
	}

	if useCache {
		cctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
		defer cancel()
		if err := o.cache.SetJSON(cctx, key, recs, o.cacheTTL); err != nil {
			o.logger.Debug("[Cache] score SET failed", zap.String("key", key), zap.Error(err))
		}
	}
	return recs, nil
}

// finalize keeps the first occurrence of each job, drops inactive postings,
// orders by effective score then recency, and caps at top-N.
func (o *Orchestrator) finalize(in []job.Ranked) []job.Ranked {
	seen := make(map[uuid.UUID]struct{}, len(in))
	out := make([]job.Ranked, 0, len(in))
	for _, r := range in {
		if !r.IsActive || r.ID == uuid.Nil {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return job.Less(out[i], out[j]) })
	if len(out) > o.topN {
		out = out[:o.topN]
	}
	return out
}

func messageFor(o Outcome) string {
	switch o {
	case OutcomeNoActiveJobs:
		return MessageNoActiveJobs
	case OutcomeNoMatchingSkills:
		return MessageNoMatchingSkills
	default:
		return MessageRecommended
	}
}

var _ Usecase = (*Orchestrator)(nil)
