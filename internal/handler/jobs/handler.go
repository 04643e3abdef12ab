package jobs

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	jobService "github.com/polkaforge/polkaforge/backend/internal/service/jobs"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves the job board.
type Handler struct {
	jobs *jobService.Service
}

// New creates a job board handler.
func New(jobs *jobService.Service) *Handler {
	return &Handler{jobs: jobs}
}

// RegisterRoutes mounts the job routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/jobs", h.handleSearch)
	r.Post("/jobs", h.handlePost)
	r.Post("/jobs/{id}/apply", h.handleApply)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.jobs.Search(r.URL.Query().Get("q")))
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var draft jobService.Draft
	if err := utils.DecodeJSON(w, r, &draft); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	posted, err := h.jobs.Post(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, posted)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "job id must be a number")
		return
	}
	var app jobService.Application
	if err := utils.DecodeJSON(w, r, &app); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	receipt, err := h.jobs.Apply(r.Context(), id, app)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, receipt)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, jobService.ErrJobNotFound):
		status = http.StatusNotFound
	case errors.Is(err, jobService.ErrInvalidJob), errors.Is(err, jobService.ErrInvalidApplicant):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}
	utils.RespondError(w, status, err.Error())
}
