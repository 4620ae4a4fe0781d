package mlclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/domain/profile"

	"go.uber.org/zap"
)

func newTestClient(baseURL string, healthTimeout, scoreTimeout time.Duration) *Client {
	return NewClient(config.MLConfig{
		BaseURL:       baseURL,
		HealthTimeout: healthTimeout,
		ScoreTimeout:  scoreTimeout,
		RecommendPath: "/api/recommend",
	}, zap.NewNop())
}

func TestClient_ProbeHealth(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "healthy", status: http.StatusOK, body: `{"status":"healthy","model_loaded":true,"jobs_count":42}`},
		{name: "model not loaded", status: http.StatusOK, body: `{"model_loaded":false,"jobs_count":42}`, wantErr: true},
		{name: "zero jobs", status: http.StatusOK, body: `{"model_loaded":true,"jobs_count":0}`, wantErr: true},
		{name: "non 200", status: http.StatusServiceUnavailable, body: `{"detail":"down"}`, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET, got %s", r.Method)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			c := newTestClient(server.URL, time.Second, time.Second)
			err := c.ProbeHealth(context.Background())
			if tc.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}

func TestClient_ProbeHealth_Timeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	defer close(release)

	c := newTestClient(server.URL, 50*time.Millisecond, time.Second)

	start := time.Now()
	err := c.ProbeHealth(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("probe did not respect its deadline: %s", elapsed)
	}
}

func TestClient_ScoreSendsFeatures(t *testing.T) {
	var gotTopN string
	var gotBody profile.Features
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotTopN = r.URL.Query().Get("top_n")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":"ok","recommendations":[
			{"job_id":"a","company":"Acme","job_role":"Backend","score":0.9,"matching_skills":["Go"],"skill_match_percentage":50}
		]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(server.URL, time.Second, time.Second)
	recs, err := c.Score(context.Background(), profile.Features{Skills: "Go, SQL", Location: "Paris France"}, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotTopN != "10" {
		t.Fatalf("expected top_n=10, got %q", gotTopN)
	}
	if gotBody.Skills != "Go, SQL" || gotBody.Location != "Paris France" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if len(recs) != 1 || recs[0].JobID != "a" || recs[0].Score != 0.9 {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}

func TestClient_ScoreFailures(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"Model or job data not loaded"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(server.URL, time.Second, time.Second)
	_, err := c.Score(context.Background(), profile.Features{}, 10)
	if !errors.Is(err, ErrScoringFailed) {
		t.Fatalf("expected ErrScoringFailed, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one attempt, got %d", got)
	}
}

func TestClient_ScoreTimeout(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommend", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	defer close(release)

	c := newTestClient(server.URL, time.Second, 50*time.Millisecond)
	_, err := c.Score(context.Background(), profile.Features{}, 10)
	if !errors.Is(err, ErrScoringFailed) {
		t.Fatalf("expected ErrScoringFailed, got %v", err)
	}
}

func TestClient_RecommendCertifications(t *testing.T) {
	var gotRole string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recommend-certifications", func(w http.ResponseWriter, r *http.Request) {
		gotRole = r.URL.Query().Get("target_job_role")
		_, _ = w.Write([]byte(`{"message":"ok","skill_gap":["Kubernetes"],"recommendations":[
			{"title":"CKA","description":"k8s admin","provider":"CNCF","score":88}
		]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(server.URL, time.Second, time.Second)
	res, err := c.RecommendCertifications(context.Background(), profile.Features{}, "DevOps Engineer", 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotRole != "DevOps Engineer" {
		t.Fatalf("expected target role to be forwarded, got %q", gotRole)
	}
	if len(res.Certifications) != 1 || res.Certifications[0].Title != "CKA" {
		t.Fatalf("unexpected certifications: %+v", res.Certifications)
	}
	if len(res.SkillGap) != 1 || res.SkillGap[0] != "Kubernetes" {
		t.Fatalf("unexpected skill gap: %+v", res.SkillGap)
	}
}

func TestFilterRelevant(t *testing.T) {
	pos := 40.0
	zero := 0.0
	recs := []Recommendation{
		{JobID: "skills", MatchingSkills: []string{"Go"}},
		{JobID: "pct", SkillMatchPercentage: &pos},
		{JobID: "zero", SkillMatchPercentage: &zero},
		{JobID: "none"},
		{JobID: "empty", MatchingSkills: []string{}},
	}

	got := FilterRelevant(recs)
	if len(got) != 2 || got[0].JobID != "skills" || got[1].JobID != "pct" {
		t.Fatalf("unexpected filtered recommendations: %+v", got)
	}
}
