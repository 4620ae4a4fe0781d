package matching

import "strings"

// SkillsOverlap reports whether a and b are case-insensitive substrings of one
// another. "React" overlaps "React.js"; "JS" does not overlap "JavaScript".
// That gap is a known relevance limitation and is kept as is.
func SkillsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// OverlappingSkills returns the job skills that overlap any candidate skill,
// in job order.
func OverlappingSkills(jobSkills, candidateSkills []string) []string {
	out := make([]string, 0)
	for _, js := range jobSkills {
		for _, cs := range candidateSkills {
			if SkillsOverlap(js, cs) {
				out = append(out, js)
				break
			}
		}
	}
	return out
}

// ContainsFold reports whether s contains sub, ignoring case.
func ContainsFold(s, sub string) bool {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// NormalizeTerms trims, drops empties and case-insensitive duplicates.
func NormalizeTerms(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BroadTerms extends terms with their word tokens of at least minRunes runes.
func BroadTerms(terms []string, minRunes int) []string {
	out := append([]string{}, terms...)
	for _, t := range terms {
		words := strings.FieldsFunc(t, func(r rune) bool {
			return r == ' ' || r == '/' || r == ',' || r == '-' || r == '(' || r == ')'
		})
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if len([]rune(w)) >= minRunes {
				out = append(out, w)
			}
		}
	}
	return NormalizeTerms(out)
}
