package profile

import "testing"

func TestExtract_FlattensProfile(t *testing.T) {
	p := CandidateProfile{
		Skills:         []string{"Go", "PostgreSQL"},
		Education:      []Education{{Degree: "MSc", Field: "Computer Science", School: "EPFL"}},
		Experience:     []Experience{{Title: "Backend Engineer", Company: "Acme", Description: "APIs"}, {Title: "Intern", Company: "Globex", Description: "tools"}},
		Languages:      []Language{{Name: "French", Level: "Native"}},
		Certifications: []Certification{{Name: "CKA", Issuer: "CNCF"}},
		City:           "Lyon",
		Country:        "France",
	}

	f := Extract(p)

	if f.Skills != "Go, PostgreSQL" {
		t.Fatalf("unexpected skills: %q", f.Skills)
	}
	if f.Education != "MSc Computer Science EPFL" {
		t.Fatalf("unexpected education: %q", f.Education)
	}
	if f.Experience != "Backend Engineer Acme APIs, Intern Globex tools" {
		t.Fatalf("unexpected experience: %q", f.Experience)
	}
	if f.Languages != "French Native" {
		t.Fatalf("unexpected languages: %q", f.Languages)
	}
	if f.Certifications != "CKA CNCF" {
		t.Fatalf("unexpected certifications: %q", f.Certifications)
	}
	if f.Location != "Lyon France" {
		t.Fatalf("unexpected location: %q", f.Location)
	}
	if f.ContractType != "" {
		t.Fatalf("expected empty contract type, got %q", f.ContractType)
	}
}

func TestExtract_EmptyProfile(t *testing.T) {
	f := Extract(CandidateProfile{Country: "France"})
	if f.Skills != "" || f.Education != "" || f.Experience != "" || f.Languages != "" || f.Certifications != "" {
		t.Fatalf("expected empty fields, got %+v", f)
	}
	if f.Location != "France" {
		t.Fatalf("expected trimmed location, got %q", f.Location)
	}
}
