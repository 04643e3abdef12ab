package explorer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/polkaforge/polkaforge/backend/internal/model/doc"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(doc.NewMemoryStore(doc.Seed(), doc.SeedTutorials(), doc.Categories())).RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestSearchDocs(t *testing.T) {
	r := setupRouter()

	var docs []doc.Doc
	resp := get(r, "/docs?category="+url.QueryEscape("Development")+"&q=javascript")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &docs)
	if len(docs) != 1 || docs[0].Title != "Polkadot JS API" {
		t.Fatalf("unexpected docs %+v", docs)
	}

	_ = json.Unmarshal(get(r, "/docs").Body.Bytes(), &docs)
	if len(docs) != 6 {
		t.Fatalf("expected all 6 docs, got %d", len(docs))
	}
}

func TestSearchUnknownCategory(t *testing.T) {
	resp := get(setupRouter(), "/docs?category=Memes")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var body struct {
		Details struct {
			Categories []string `json:"categories"`
		} `json:"details"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &body)
	if len(body.Details.Categories) != len(doc.Categories()) {
		t.Fatalf("expected the category list in the error details, got %s", resp.Body.String())
	}
}

func TestCategoriesAndTutorials(t *testing.T) {
	r := setupRouter()

	var categories []string
	_ = json.Unmarshal(get(r, "/docs/categories").Body.Bytes(), &categories)
	if len(categories) == 0 || categories[0] != doc.AllCategories {
		t.Fatalf("expected %q first, got %v", doc.AllCategories, categories)
	}

	var tutorials []doc.Tutorial
	_ = json.Unmarshal(get(r, "/docs/tutorials").Body.Bytes(), &tutorials)
	if len(tutorials) != 3 {
		t.Fatalf("expected 3 tutorials, got %d", len(tutorials))
	}
}
