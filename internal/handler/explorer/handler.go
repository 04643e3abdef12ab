package explorer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polkaforge/polkaforge/backend/internal/model/doc"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves the documentation explorer.
type Handler struct {
	store doc.Store
}

// New creates an explorer handler.
func New(store doc.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the explorer routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/docs", h.handleSearch)
	r.Get("/docs/categories", h.handleCategories)
	r.Get("/docs/tutorials", h.handleTutorials)
}

// handleSearch filters docs by ?category= and a free-text ?q=.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category := query.Get("category")
	if category != "" && !doc.HasCategory(h.store, category) {
		utils.RespondErrorDetails(w, http.StatusBadRequest, "unknown category", map[string]any{
			"categories": h.store.Categories(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.store.Search(category, query.Get("q")))
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Categories())
}

func (h *Handler) handleTutorials(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Tutorials())
}
