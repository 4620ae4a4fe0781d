package recommendation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"jobmatch/internal/domain/profile"
)

type scoreCacheKeyInput struct {
	Features profile.Features `json:"features"`
	TopN     int              `json:"top_n"`
}

func normalizeFeatureValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// ScoreCacheKey identifies a scoring response by the normalised feature
// payload and the requested top-N.
func ScoreCacheKey(f profile.Features, topN int) string {
	in := scoreCacheKeyInput{
		Features: profile.Features{
			Skills:         normalizeFeatureValue(f.Skills),
			Experience:     normalizeFeatureValue(f.Experience),
			Education:      normalizeFeatureValue(f.Education),
			Location:       normalizeFeatureValue(f.Location),
			ContractType:   normalizeFeatureValue(f.ContractType),
			Languages:      normalizeFeatureValue(f.Languages),
			Certifications: normalizeFeatureValue(f.Certifications),
		},
		TopN: topN,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "ml:recommend:" + hex.EncodeToString(sum[:])
}
