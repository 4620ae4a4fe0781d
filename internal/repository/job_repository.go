package repository

import (
	"context"
	"strings"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

const maxJobQueryLimit = 50

// JobRepository is the read side of the job store. Every query only ever
// returns active postings, ordered by recency (created_at DESC).
// FindActiveByCompanyOrRole is the exception: company or title equality
// matches come before description-only matches, so the limit never cuts
// a posting a recommendation names directly.
type JobRepository interface {
	CountActive(ctx context.Context) (int, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]job.Posting, error)
	FindActiveByCompanyOrRole(ctx context.Context, companies, roles []string, limit int) ([]job.Posting, error)
	FindActiveBySkillOverlap(ctx context.Context, skills []string, exclude []uuid.UUID, limit int) ([]job.Posting, error)
	FindActiveByTerms(ctx context.Context, f TermFilter) ([]job.Posting, error)
}

// TermFilter selects postings whose title or description contains one of
// Terms. With SkillContainment a job skill containing a term also matches;
// otherwise a job skill must equal a term. Comparisons ignore case.
type TermFilter struct {
	Terms            []string
	SkillContainment bool
	Exclude          []uuid.UUID
	Limit            int
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, j.title, j.company, j.location, j.description, j.skills, j.is_active, j.created_at`

func (r *PostgresJobRepository) CountActive(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM jobs WHERE is_active = true`)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresJobRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]job.Posting, error) {
	if len(ids) == 0 {
		return []job.Posting{}, nil
	}
	return r.query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.is_active = true AND j.id = ANY($1::uuid[])
		 ORDER BY j.created_at DESC, j.id ASC`,
		uuidStrings(ids),
	)
}

func (r *PostgresJobRepository) FindActiveByCompanyOrRole(ctx context.Context, companies, roles []string, limit int) ([]job.Posting, error) {
	companies = nonEmpty(companies)
	roles = nonEmpty(roles)
	if len(companies) == 0 && len(roles) == 0 {
		return []job.Posting{}, nil
	}
	return r.query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.is_active = true
		   AND (
		     j.company = ANY($1::text[])
		     OR EXISTS (
		       SELECT 1 FROM unnest($2::text[]) AS role
		       WHERE lower(j.title) = lower(role)
		          OR strpos(lower(j.description), lower(role)) > 0
		     )
		   )
		 ORDER BY (
		     j.company = ANY($1::text[])
		     OR EXISTS (SELECT 1 FROM unnest($2::text[]) AS role WHERE lower(j.title) = lower(role))
		   ) DESC, j.created_at DESC, j.id ASC
		 LIMIT $3`,
		companies, roles, clampLimit(limit),
	)
}

func (r *PostgresJobRepository) FindActiveBySkillOverlap(ctx context.Context, skills []string, exclude []uuid.UUID, limit int) ([]job.Posting, error) {
	skills = nonEmpty(skills)
	if len(skills) == 0 {
		return []job.Posting{}, nil
	}
	return r.query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.is_active = true
		   AND NOT (j.id = ANY($2::uuid[]))
		   AND EXISTS (
		     SELECT 1
		     FROM unnest(j.skills) AS js, unnest($1::text[]) AS cs
		     WHERE js <> ''
		       AND (strpos(lower(js), lower(cs)) > 0 OR strpos(lower(cs), lower(js)) > 0)
		   )
		 ORDER BY j.created_at DESC, j.id ASC
		 LIMIT $3`,
		skills, uuidStrings(exclude), clampLimit(limit),
	)
}

func (r *PostgresJobRepository) FindActiveByTerms(ctx context.Context, f TermFilter) ([]job.Posting, error) {
	terms := nonEmpty(f.Terms)
	if len(terms) == 0 {
		return []job.Posting{}, nil
	}

	skillClause := `lower(js) = lower(t)`
	if f.SkillContainment {
		skillClause = `strpos(lower(js), lower(t)) > 0`
	}

	return r.query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.is_active = true
		   AND NOT (j.id = ANY($2::uuid[]))
		   AND EXISTS (
		     SELECT 1 FROM unnest($1::text[]) AS t
		     WHERE strpos(lower(j.title), lower(t)) > 0
		        OR strpos(lower(j.description), lower(t)) > 0
		        OR EXISTS (SELECT 1 FROM unnest(j.skills) AS js WHERE js <> '' AND `+skillClause+`)
		   )
		 ORDER BY j.created_at DESC, j.id ASC
		 LIMIT $3`,
		terms, uuidStrings(f.Exclude), clampLimit(f.Limit),
	)
}

func (r *PostgresJobRepository) query(ctx context.Context, sql string, args ...any) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		var p job.Posting
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Description, &p.Skills, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxJobQueryLimit {
		return maxJobQueryLimit
	}
	return limit
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		out = append(out, id.String())
	}
	return out
}
