package profile

import "github.com/google/uuid"

type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	School      string `json:"school"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type Language struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date,omitempty"`
}

// CandidateProfile is a read-only snapshot of the candidate's CV data.
type CandidateProfile struct {
	UserID         uuid.UUID
	Skills         []string
	Education      []Education
	Experience     []Experience
	Languages      []Language
	Certifications []Certification
	City           string
	Country        string
}

// Summary is the part of the profile echoed back with recommendations.
type Summary struct {
	Skills     []string
	Education  []Education
	Experience []Experience
}

func (p CandidateProfile) Summary() Summary {
	return Summary{
		Skills:     orEmpty(p.Skills),
		Education:  orEmpty(p.Education),
		Experience: orEmpty(p.Experience),
	}
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
