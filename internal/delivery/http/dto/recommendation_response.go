package dto

import (
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/usecase/recommendation"

	"github.com/google/uuid"
)

type RankedJobResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Company              string    `json:"company"`
	Location             string    `json:"location"`
	Description          string    `json:"description"`
	Skills               []string  `json:"skills"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	MLScore              *float64  `json:"mlScore,omitempty"`
	SkillMatchPercentage *float64  `json:"skillMatchPercentage,omitempty"`
	MatchingSkills       []string  `json:"matchingSkills,omitempty"`
	MissingSkills        []string  `json:"missingSkills,omitempty"`
	Explanation          string    `json:"explanation,omitempty"`
	Source               string    `json:"source"`
}

type ProfileResponse struct {
	Skills     []string             `json:"skills"`
	Education  []profile.Education  `json:"education"`
	Experience []profile.Experience `json:"experience"`
}

type DebugResponse struct {
	MLServiceUsed                bool     `json:"mlServiceUsed"`
	AIRecommendationsCount       int      `json:"aiRecommendationsCount"`
	FilteredRecommendationsCount int      `json:"filteredRecommendationsCount"`
	FinalJobsCount               int      `json:"finalJobsCount"`
	TotalActiveJobs              int      `json:"totalActiveJobs"`
	ReconcileStage               string   `json:"reconcileStage,omitempty"`
	FallbackStrategies           []string `json:"fallbackStrategies"`
}

type RecommendationResponse struct {
	Jobs    []RankedJobResponse `json:"jobs"`
	Profile ProfileResponse     `json:"profile"`
	Debug   DebugResponse       `json:"debug"`
}

func NewRecommendationResponse(res recommendation.Result) RecommendationResponse {
	jobs := make([]RankedJobResponse, 0, len(res.Jobs))
	for _, r := range res.Jobs {
		jobs = append(jobs, newRankedJob(r))
	}

	strategies := res.Debug.FallbackStrategies
	if strategies == nil {
		strategies = []string{}
	}

	return RecommendationResponse{
		Jobs:    jobs,
		Profile: NewProfileResponse(res.Profile),
		Debug: DebugResponse{
			MLServiceUsed:                res.Debug.MLServiceUsed,
			AIRecommendationsCount:       res.Debug.AIRecommendationsCount,
			FilteredRecommendationsCount: res.Debug.FilteredRecommendationsCount,
			FinalJobsCount:               res.Debug.FinalJobsCount,
			TotalActiveJobs:              res.Debug.TotalActiveJobs,
			ReconcileStage:               string(res.Debug.ReconcileStage),
			FallbackStrategies:           strategies,
		},
	}
}

func NewProfileResponse(s profile.Summary) ProfileResponse {
	return ProfileResponse{Skills: s.Skills, Education: s.Education, Experience: s.Experience}
}

func newRankedJob(r job.Ranked) RankedJobResponse {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return RankedJobResponse{
		ID:                   r.ID,
		Title:                r.Title,
		Company:              r.Company,
		Location:             r.Location,
		Description:          r.Description,
		Skills:               skills,
		IsActive:             r.IsActive,
		CreatedAt:            r.CreatedAt,
		MLScore:              r.Annotation.MLScore,
		SkillMatchPercentage: r.Annotation.SkillMatchPercentage,
		MatchingSkills:       r.Annotation.MatchingSkills,
		MissingSkills:        r.Annotation.MissingSkills,
		Explanation:          r.Annotation.Explanation,
		Source:               string(r.Provenance),
	}
}
