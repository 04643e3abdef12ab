package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dashboardService "github.com/polkaforge/polkaforge/backend/internal/service/dashboard"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves the repository dashboard.
type Handler struct {
	dashboard *dashboardService.Service
}

// New creates a dashboard handler.
func New(dashboard *dashboardService.Service) *Handler {
	return &Handler{dashboard: dashboard}
}

// RegisterRoutes mounts the dashboard routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.handleOverview)
		r.Get("/repositories/{id}", h.handleGet)
		r.Post("/repositories/{id}/clone", h.handleClone)
		r.Post("/repositories/{id}/fork", h.handleFork)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.dashboard.Overview())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	repo, err := h.dashboard.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, repo)
}

func (h *Handler) handleClone(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboard.Clone(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFork(w http.ResponseWriter, r *http.Request) {
	forked, err := h.dashboard.Fork(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, forked)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboardService.ErrRepositoryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	utils.RespondError(w, status, err.Error())
}
