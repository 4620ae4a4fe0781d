package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/domain/profile"
	"jobmatch/internal/logger"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable means the subsystem is not ready to score: the probe
	// failed, timed out, or reported no model or no jobs.
	ErrUnavailable = errors.New("ml subsystem unavailable")
	// ErrScoringFailed means a scoring call did not produce a usable answer.
	ErrScoringFailed = errors.New("ml scoring call failed")
)

const (
	healthPath         = "/health"
	certificationsPath = "/api/recommend-certifications"
	maxErrorBody       = 4096
)

type Recommendation struct {
	JobID                string   `json:"job_id,omitempty"`
	JobRole              string   `json:"job_role,omitempty"`
	Company              string   `json:"company"`
	Location             string   `json:"location,omitempty"`
	SkillsDescription    string   `json:"skills_description,omitempty"`
	Score                float64  `json:"score"`
	SkillMatchPercentage *float64 `json:"skill_match_percentage,omitempty"`
	MatchingSkills       []string `json:"matching_skills,omitempty"`
	MissingSkills        []string `json:"missing_skills,omitempty"`
	Explanation          string   `json:"explanation,omitempty"`
}

type Certification struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Provider             string   `json:"provider,omitempty"`
	Level                string   `json:"level,omitempty"`
	SkillsCovered        []string `json:"skills_covered,omitempty"`
	Score                float64  `json:"score"`
	RelevanceExplanation string   `json:"relevance_explanation,omitempty"`
}

type CertificationResult struct {
	Certifications []Certification
	SkillGap       []string
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	JobsCount   int    `json:"jobs_count"`
}

type recommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Message         string           `json:"message"`
}

type certificationsResponse struct {
	Recommendations []Certification `json:"recommendations"`
	Message         string          `json:"message"`
	SkillGap        []string        `json:"skill_gap"`
}

// Client talks to the ML subsystem. It never retries; every call runs under
// its own deadline derived from the caller's context.
type Client struct {
	baseURL       string
	recommendPath string
	healthTimeout time.Duration
	scoreTimeout  time.Duration
	http          *http.Client
	logger        *zap.Logger
}

func NewClient(cfg config.MLConfig, log *zap.Logger) *Client {
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = config.DefaultMLHealthTimeout
	}
	scoreTimeout := cfg.ScoreTimeout
	if scoreTimeout <= 0 {
		scoreTimeout = config.DefaultMLScoreTimeout
	}
	recommendPath := strings.TrimSpace(cfg.RecommendPath)
	if recommendPath == "" {
		recommendPath = config.DefaultMLRecommendPath
	}
	if !strings.HasPrefix(recommendPath, "/") {
		recommendPath = "/" + recommendPath
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultMLBaseURL
	}

	return &Client{
		baseURL:       baseURL,
		recommendPath: recommendPath,
		healthTimeout: healthTimeout,
		scoreTimeout:  scoreTimeout,
		http:          &http.Client{},
		logger:        logger.OrNop(log),
	}
}

func (c *Client) ProbeHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status=%d", ErrUnavailable, resp.StatusCode)
	}

	var h healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("%w: decode health: %v", ErrUnavailable, err)
	}
	if !h.ModelLoaded {
		return fmt.Errorf("%w: model not loaded", ErrUnavailable)
	}
	if h.JobsCount <= 0 {
		return fmt.Errorf("%w: no jobs indexed", ErrUnavailable)
	}

	c.logger.Debug("[ML] health ok", zap.Int("jobs_count", h.JobsCount))
	return nil
}

func (c *Client) Score(ctx context.Context, features profile.Features, topN int) ([]Recommendation, error) {
	q := url.Values{}
	q.Set("top_n", strconv.Itoa(topN))

	var out recommendResponse
	if err := c.post(ctx, c.recommendPath, q, features, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}
	if out.Recommendations == nil {
		out.Recommendations = []Recommendation{}
	}
	return out.Recommendations, nil
}

func (c *Client) RecommendCertifications(ctx context.Context, features profile.Features, targetRole string, topN int) (CertificationResult, error) {
	q := url.Values{}
	q.Set("top_n", strconv.Itoa(topN))
	if role := strings.TrimSpace(targetRole); role != "" {
		q.Set("target_job_role", role)
	}

	var out certificationsResponse
	if err := c.post(ctx, certificationsPath, q, features, &out); err != nil {
		return CertificationResult{}, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}
	res := CertificationResult{Certifications: out.Recommendations, SkillGap: out.SkillGap}
	if res.Certifications == nil {
		res.Certifications = []Certification{}
	}
	if res.SkillGap == nil {
		res.SkillGap = []string{}
	}
	return res, nil
}

func (c *Client) post(ctx context.Context, path string, q url.Values, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.scoreTimeout)
	defer cancel()

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		bodyStr := strings.TrimSpace(string(rb))
		c.logger.Warn("[ML] request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", bodyStr),
		)
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, bodyStr)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FilterRelevant drops recommendations that show no skill relevance: no
// matching skills and no positive match percentage.
func FilterRelevant(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, 0, len(recs))
	for _, r := range recs {
		if len(r.MatchingSkills) > 0 {
			out = append(out, r)
			continue
		}
		if r.SkillMatchPercentage != nil && *r.SkillMatchPercentage > 0 {
			out = append(out, r)
		}
	}
	return out
}
