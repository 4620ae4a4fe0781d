package recommendation

import (
	"context"
	"sort"
	"strings"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/logger"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Stage string

const (
	StageNone      Stage = ""
	StageIdentity  Stage = "identity"
	StageHeuristic Stage = "heuristic"
)

// heuristicQueryLimit bounds the company/role query before scores are merged
// and the result is truncated to top-N.
const heuristicQueryLimit = 50

// Reconciler joins ML recommendations back onto live job postings.
type Reconciler struct {
	jobs   repository.JobRepository
	topN   int
	logger *zap.Logger
}

func NewReconciler(jobs repository.JobRepository, topN int, log *zap.Logger) *Reconciler {
	return &Reconciler{jobs: jobs, topN: topN, logger: logger.OrNop(log)}
}

// Reconcile runs the identity join and, only when it resolves nothing, the
// heuristic join. Recommendations neither stage resolves are dropped.
func (r *Reconciler) Reconcile(ctx context.Context, recs []mlclient.Recommendation) ([]job.Ranked, Stage, error) {
	if len(recs) == 0 {
		return []job.Ranked{}, StageNone, nil
	}

	out, err := r.identityJoin(ctx, recs)
	if err != nil {
		return nil, StageIdentity, err
	}
	if len(out) > 0 {
		return out, StageIdentity, nil
	}

	r.logger.Debug("[Recommend] identity join resolved nothing, trying company/role join", zap.Int("recommendations", len(recs)))

	out, err = r.heuristicJoin(ctx, recs)
	if err != nil {
		return nil, StageHeuristic, err
	}
	if len(out) == 0 {
		return out, StageNone, nil
	}
	return out, StageHeuristic, nil
}

func (r *Reconciler) identityJoin(ctx context.Context, recs []mlclient.Recommendation) ([]job.Ranked, error) {
	byID := make(map[uuid.UUID]mlclient.Recommendation, len(recs))
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		id, err := uuid.Parse(strings.TrimSpace(rec.JobID))
		if err != nil || id == uuid.Nil {
			continue
		}
		if _, ok := byID[id]; ok {
			continue
		}
		byID[id] = rec
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []job.Ranked{}, nil
	}

	postings, err := r.jobs.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]job.Ranked, 0, len(postings))
	seen := make(map[uuid.UUID]struct{}, len(postings))
	for _, p := range postings {
		rec, ok := byID[p.ID]
		if !ok || !p.IsActive {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, annotate(p, &rec))
	}
	return r.rank(out), nil
}

func (r *Reconciler) heuristicJoin(ctx context.Context, recs []mlclient.Recommendation) ([]job.Ranked, error) {
	companies := distinct(recs, func(rec mlclient.Recommendation) string { return rec.Company })
	roles := distinct(recs, func(rec mlclient.Recommendation) string { return rec.JobRole })
	if len(companies) == 0 && len(roles) == 0 {
		return []job.Ranked{}, nil
	}

	postings, err := r.jobs.FindActiveByCompanyOrRole(ctx, companies, roles, heuristicQueryLimit)
	if err != nil {
		return nil, err
	}

	out := make([]job.Ranked, 0, len(postings))
	seen := make(map[uuid.UUID]struct{}, len(postings))
	for _, p := range postings {
		if !p.IsActive {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, annotate(p, matchByCompanyOrTitle(recs, p)))
	}
	return r.rank(out), nil
}

func (r *Reconciler) rank(in []job.Ranked) []job.Ranked {
	sort.SliceStable(in, func(i, j int) bool { return job.Less(in[i], in[j]) })
	if r.topN > 0 && len(in) > r.topN {
		in = in[:r.topN]
	}
	return in
}

func matchByCompanyOrTitle(recs []mlclient.Recommendation, p job.Posting) *mlclient.Recommendation {
	for i := range recs {
		rec := recs[i]
		if c := strings.TrimSpace(rec.Company); c != "" && c == p.Company {
			return &rec
		}
		if rec.JobRole != "" && strings.EqualFold(strings.TrimSpace(rec.JobRole), strings.TrimSpace(p.Title)) {
			return &rec
		}
	}
	return nil
}

// annotate composes a posting with the ML metadata of rec; a nil rec leaves
// the annotation empty.
func annotate(p job.Posting, rec *mlclient.Recommendation) job.Ranked {
	out := job.Ranked{Posting: p, Provenance: job.ProvenanceML}
	if rec == nil {
		return out
	}
	score := rec.Score
	out.Annotation = job.Annotation{
		MLScore:        &score,
		MatchingSkills: rec.MatchingSkills,
		MissingSkills:  rec.MissingSkills,
		Explanation:    rec.Explanation,
	}
	if rec.SkillMatchPercentage != nil {
		pct := *rec.SkillMatchPercentage
		out.Annotation.SkillMatchPercentage = &pct
	}
	return out
}

func distinct(recs []mlclient.Recommendation, field func(mlclient.Recommendation) string) []string {
	seen := make(map[string]struct{}, len(recs))
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		v := strings.TrimSpace(field(rec))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
