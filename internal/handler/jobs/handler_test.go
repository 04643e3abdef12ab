package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/model/job"
	jobservice "github.com/polkaforge/polkaforge/backend/internal/service/jobs"
)

func setupRouter() *chi.Mux {
	svc := jobservice.NewService(job.NewMemoryStore(job.Seed()), 0, zerolog.Nop())
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(method, path, &buf))
	return resp
}

func TestSearchJobs(t *testing.T) {
	r := setupRouter()

	var all []job.Job
	_ = json.Unmarshal(do(r, http.MethodGet, "/jobs", nil).Body.Bytes(), &all)
	if len(all) != 5 {
		t.Fatalf("expected 5 seeded jobs, got %d", len(all))
	}

	var filtered []job.Job
	_ = json.Unmarshal(do(r, http.MethodGet, "/jobs?q=rust", nil).Body.Bytes(), &filtered)
	if len(filtered) == 0 || len(filtered) >= len(all) {
		t.Fatalf("expected a narrower result for q=rust, got %d", len(filtered))
	}
}

func TestPostAndApply(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPost, "/jobs", jobservice.Draft{
		Title:   "Indexer Engineer",
		Company: "PolkaForge",
		Reward:  1500,
		Skills:  []string{" Go ", ""},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var posted job.Job
	_ = json.Unmarshal(resp.Body.Bytes(), &posted)
	if posted.ID == 0 || posted.Location != "Remote" {
		t.Fatalf("unexpected posted job %+v", posted)
	}

	resp = do(r, http.MethodPost, "/jobs/1/apply", jobservice.Application{Applicant: "alice"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var receipt jobservice.Receipt
	_ = json.Unmarshal(resp.Body.Bytes(), &receipt)
	if receipt.JobID != 1 || receipt.Status != "submitted" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestJobErrors(t *testing.T) {
	r := setupRouter()
	cases := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodPost, "/jobs", jobservice.Draft{Title: "No company", Reward: 1}, http.StatusBadRequest},
		{http.MethodPost, "/jobs/abc/apply", jobservice.Application{Applicant: "a"}, http.StatusBadRequest},
		{http.MethodPost, "/jobs/999/apply", jobservice.Application{Applicant: "a"}, http.StatusNotFound},
		{http.MethodPost, "/jobs/1/apply", jobservice.Application{}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if resp := do(r, tc.method, tc.path, tc.body); resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.Code)
		}
	}
}
