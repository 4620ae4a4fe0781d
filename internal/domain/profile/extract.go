package profile

import "strings"

// Features is the flattened text form of a profile sent to the scoring subsystem.
type Features struct {
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Location       string `json:"location"`
	ContractType   string `json:"contract_type"`
	Languages      string `json:"languages"`
	Certifications string `json:"certifications"`
}

func Extract(p CandidateProfile) Features {
	return Features{
		Skills: strings.Join(p.Skills, ", "),
		Education: render(p.Education, func(e Education) []string {
			return []string{e.Degree, e.Field, e.School}
		}),
		Experience: render(p.Experience, func(e Experience) []string {
			return []string{e.Title, e.Company, e.Description}
		}),
		Languages: render(p.Languages, func(l Language) []string {
			return []string{l.Name, l.Level}
		}),
		Certifications: render(p.Certifications, func(c Certification) []string {
			return []string{c.Name, c.Issuer}
		}),
		Location: strings.TrimSpace(p.City + " " + p.Country),
	}
}

// render space-joins the sub-fields of each entry and comma-joins the entries.
func render[T any](items []T, fields func(T) []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		parts := fields(it)
		out = append(out, strings.Join(parts, " "))
	}
	return strings.Join(out, ", ")
}
