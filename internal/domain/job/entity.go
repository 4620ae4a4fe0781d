package job

import (
	"time"

	"github.com/google/uuid"
)

// Posting is the canonical job record owned by the job store.
type Posting struct {
	ID          uuid.UUID
	Title       string
	Company     string
	Location    string
	Description string
	Skills      []string
	IsActive    bool
	CreatedAt   time.Time
}

type Provenance string

const (
	ProvenanceML       Provenance = "ml"
	ProvenanceFallback Provenance = "fallback"
)

// Annotation carries the optional scoring metadata merged onto a posting.
// A nil MLScore means the posting was not scored by the ML subsystem.
type Annotation struct {
	MLScore              *float64
	SkillMatchPercentage *float64
	MatchingSkills       []string
	MissingSkills        []string
	Explanation          string
}

type Ranked struct {
	Posting
	Annotation Annotation
	Provenance Provenance
}

// EffectiveScore is the ML score, or 0 when the entry was not scored.
func (r Ranked) EffectiveScore() float64 {
	if r.Annotation.MLScore == nil {
		return 0
	}
	return *r.Annotation.MLScore
}

// Less orders by effective score desc, then recency desc, then id.
func Less(a, b Ranked) bool {
	sa, sb := a.EffectiveScore(), b.EffectiveScore()
	if sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}
