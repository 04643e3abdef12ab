package quickaction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polkaforge/polkaforge/backend/internal/analysis/intent"
	"github.com/polkaforge/polkaforge/backend/internal/model/quickaction"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves the quick action buttons and the capability cards.
type Handler struct {
	store      quickaction.Store
	dispatcher *intent.Dispatcher
}

// New creates a quick action handler.
func New(store quickaction.Store, dispatcher *intent.Dispatcher) *Handler {
	return &Handler{store: store, dispatcher: dispatcher}
}

// RegisterRoutes mounts the quick action routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/quick-actions", h.handleList)
	r.Get("/quick-actions/{id}", h.handlePreview)
	r.Get("/capabilities", h.handleCapabilities)
}

type preview struct {
	quickaction.Action
	Template string `json:"template"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

// handlePreview reports which reply a quick action's prompt will produce.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	action, ok := h.store.FindByID(chi.URLParam(r, "id"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "quick action not found")
		return
	}
	match := h.dispatcher.Dispatch(action.Prompt)
	utils.RespondJSON(w, http.StatusOK, preview{Action: action, Template: match.Template.Name})
}

func (h *Handler) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Capabilities())
}
