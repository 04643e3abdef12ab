package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/handler/chat"
	chatModel "github.com/polkaforge/polkaforge/backend/internal/model/chat"
	chatService "github.com/polkaforge/polkaforge/backend/internal/service/chat"
	"github.com/polkaforge/polkaforge/backend/pkg/utils"
)

const defaultHeartbeat = 8 * time.Second

// Handler streams a single exchange over Server-Sent Events: the user's
// message goes in, the typing indicator and then the canned reply come out.
type Handler struct {
	chatSvc   *chatService.Service
	log       zerolog.Logger
	heartbeat time.Duration
}

// New creates a stream handler.
func New(chatSvc *chatService.Service, log zerolog.Logger) *Handler {
	return &Handler{chatSvc: chatSvc, log: log, heartbeat: defaultHeartbeat}
}

// RegisterRoutes mounts the stream route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// Event is the data payload of every SSE event.
type Event struct {
	SessionID string             `json:"sessionId"`
	Typing    *bool              `json:"typing,omitempty"`
	Message   *chatModel.Message `json:"message,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")
	text := r.URL.Query().Get("message")
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	// subscribe first so the reply cannot slip past between send and listen
	updates, cancel, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		utils.RespondError(w, chat.StatusFor(err), err.Error())
		return
	}
	defer cancel()

	userMsg, err := h.chatSvc.Send(ctx, sessionID, text)
	if err != nil {
		utils.RespondError(w, chat.StatusFor(err), err.Error())
		return
	}

	sse, err := utils.NewSSEWriter(w)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log := h.log.With().Str("session", sessionID).Logger()
	log.Debug().Msg("opening reply stream")

	typing := true
	if err := sse.Event("start", Event{SessionID: sessionID, Message: &userMsg}); err != nil {
		return
	}
	if err := sse.Event("typing", Event{SessionID: sessionID, Typing: &typing}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("client closed reply stream")
			return
		case <-ticker.C:
			if err := sse.Comment("heartbeat"); err != nil {
				return
			}
		case msg, ok := <-updates:
			if !ok {
				_ = sse.Event("end", Event{SessionID: sessionID, Error: "session closed"})
				return
			}
			if msg.Author != chatModel.AuthorAssistant || msg.ReplyTo != userMsg.ID {
				continue
			}
			if err := sse.Event("message", Event{SessionID: sessionID, Message: &msg}); err != nil {
				return
			}
			typing = false
			_ = sse.Event("typing", Event{SessionID: sessionID, Typing: &typing})
			_ = sse.Event("end", Event{SessionID: sessionID})
			return
		}
	}
}
