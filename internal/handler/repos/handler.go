package repos

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polkaforge/polkaforge/backend/internal/service/upload"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves the repository upload wizard.
type Handler struct {
	uploads *upload.Service
}

// New creates a repo wizard handler.
func New(uploads *upload.Service) *Handler {
	return &Handler{uploads: uploads}
}

// RegisterRoutes mounts the repo routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/repos", h.handleCreate)
	r.Get("/repos/{id}", h.handleGet)
	r.Get("/repos/{id}/progress", h.handleProgress)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req upload.Request
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.uploads.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.uploads.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

// handleProgress streams "progress" events until the NFT is minted, then "done".
func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	updates, cancel, err := h.uploads.Watch(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()

	sse, err := utils.NewSSEWriter(w)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var last upload.Upload
	for {
		select {
		case <-r.Context().Done():
			return
		case u, ok := <-updates:
			if !ok {
				if last.Finished() {
					_ = sse.Event("done", last)
				} else {
					_ = sse.Event("error", map[string]string{"error": "upload interrupted"})
				}
				return
			}
			last = u
			if err := sse.Event("progress", u); err != nil {
				return
			}
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, upload.ErrUploadNotFound):
		status = http.StatusNotFound
	case errors.Is(err, upload.ErrNameRequired):
		status = http.StatusBadRequest
	case errors.Is(err, upload.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	utils.RespondError(w, status, err.Error())
}
