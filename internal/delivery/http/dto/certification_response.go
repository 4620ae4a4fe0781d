package dto

import (
	"jobmatch/internal/infrastructure/mlclient"
	"jobmatch/internal/usecase/certification"
)

type CertificationRequest struct {
	TargetJobRole string `json:"target_job_role"`
}

type CertificationResponse struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Provider             string   `json:"provider,omitempty"`
	Level                string   `json:"level,omitempty"`
	SkillsCovered        []string `json:"skillsCovered"`
	Score                float64  `json:"score"`
	RelevanceExplanation string   `json:"relevanceExplanation,omitempty"`
}

type CertificationsResponse struct {
	Certifications []CertificationResponse `json:"certifications"`
	SkillGap       []string                `json:"skillGap"`
	Profile        ProfileResponse         `json:"profile"`
}

func NewCertificationsResponse(res certification.Result) CertificationsResponse {
	out := make([]CertificationResponse, 0, len(res.Certifications))
	for _, c := range res.Certifications {
		out = append(out, newCertification(c))
	}
	gap := res.SkillGap
	if gap == nil {
		gap = []string{}
	}
	return CertificationsResponse{
		Certifications: out,
		SkillGap:       gap,
		Profile:        NewProfileResponse(res.Profile),
	}
}

func newCertification(c mlclient.Certification) CertificationResponse {
	covered := c.SkillsCovered
	if covered == nil {
		covered = []string{}
	}
	return CertificationResponse{
		Title:                c.Title,
		Description:          c.Description,
		Provider:             c.Provider,
		Level:                c.Level,
		SkillsCovered:        covered,
		Score:                c.Score,
		RelevanceExplanation: c.RelevanceExplanation,
	}
}
