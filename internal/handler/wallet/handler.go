package wallet

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	walletService "github.com/polkaforge/polkaforge/backend/internal/service/wallet"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

// Handler serves wallet connection endpoints.
type Handler struct {
	wallet *walletService.Service
}

// New creates a wallet handler.
func New(wallet *walletService.Service) *Handler {
	return &Handler{wallet: wallet}
}

// RegisterRoutes mounts the wallet routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", h.handleCurrent)
		r.Delete("/", h.handleDisconnect)
		r.Get("/accounts", h.handleAccounts)
		r.Post("/connect", h.handleConnect)
		r.Post("/demo", h.handleDemo)
		r.Post("/refresh", h.handleRefresh)
		r.Post("/restore", h.handleRestore)
	})
}

type connectRequest struct {
	Address string `json:"address"`
}

type restoreResponse struct {
	Restored   bool                      `json:"restored"`
	Connection *walletService.Connection `json:"connection,omitempty"`
}

func (h *Handler) handleAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.wallet.Accounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var payload connectRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(w, r, &payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	conn, err := h.wallet.Connect(r.Context(), payload.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, conn)
}

func (h *Handler) handleDemo(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.wallet.Demo(r.Context()))
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wallet.Current()
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, conn)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	conn, err := h.wallet.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, conn)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	conn, ok, err := h.wallet.Restore(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := restoreResponse{Restored: ok}
	if ok {
		out.Connection = &conn
	}
	utils.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.wallet.Disconnect(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, walletService.ErrExtensionNotFound):
		utils.RespondErrorDetails(w, http.StatusPreconditionFailed, err.Error(), map[string]any{
			"installUrl": walletService.InstallURL,
		})
	case errors.Is(err, walletService.ErrNoAccounts):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, walletService.ErrAccountNotFound), errors.Is(err, walletService.ErrNotConnected):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, walletService.ErrAccountRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
	}
}
