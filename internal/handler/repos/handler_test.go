package repos

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/service/upload"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := upload.NewService(upload.Config{
		Tick:      time.Millisecond,
		Step:      25,
		MintDelay: 5 * time.Millisecond,
	}, zerolog.Nop(), nil)
	t.Cleanup(svc.Close)

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestCreateAndStreamProgress(t *testing.T) {
	srv := setupServer(t)

	body, _ := json.Marshal(upload.Request{Name: "polkaforge-dapp", Language: "Rust"})
	resp, err := http.Post(srv.URL+"/repos", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /repos: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var created upload.Upload
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Visibility != "public" {
		t.Fatalf("expected default visibility public, got %q", created.Visibility)
	}

	stream, err := http.Get(srv.URL + "/repos/" + created.ID + "/progress")
	if err != nil {
		t.Fatalf("GET progress: %v", err)
	}
	defer stream.Body.Close()
	raw, _ := io.ReadAll(stream.Body)
	text := string(raw)

	if !strings.Contains(text, "event: done") {
		t.Fatalf("expected done event in stream:\n%s", text)
	}
	if !strings.Contains(text, upload.MintedIPFSHash) {
		t.Fatalf("expected minted hash in stream:\n%s", text)
	}

	final, err := http.Get(srv.URL + "/repos/" + created.ID)
	if err != nil {
		t.Fatalf("GET repo: %v", err)
	}
	defer final.Body.Close()
	var got upload.Upload
	_ = json.NewDecoder(final.Body).Decode(&got)
	if got.Progress != 100 || !got.NFTMinted || got.Stage != upload.StageDone {
		t.Fatalf("unexpected final upload %+v", got)
	}
}

func TestRepoErrors(t *testing.T) {
	srv := setupServer(t)

	resp, err := http.Post(srv.URL+"/repos", "application/json", strings.NewReader(`{"name":"  "}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	for _, path := range []string{"/repos/missing", "/repos/missing/progress"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}
