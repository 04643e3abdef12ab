package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	chatModel "github.com/polkaforge/polkaforge/backend/internal/model/chat"
	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
	chatService "github.com/polkaforge/polkaforge/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
	outboxSize   = 16
)

// Handler serves the chat websocket.
type Handler struct {
	chatSvc  *chatService.Service
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// New creates a websocket handler.
func New(chatSvc *chatService.Service, log zerolog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		log:     log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type       string           `json:"type"`
	SessionID  string           `json:"sessionId"`
	Text       string           `json:"text"`
	Suggestion reply.Suggestion `json:"suggestion"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`

	// opensTyping marks the typing:true frame written after a chat send.
	opensTyping bool
}

// connectionState belongs to the read loop of one connection.
type connectionState struct {
	sessionID string
	sent      int
	received  int
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	updates, unsubscribe, err := h.chatSvc.Subscribe(sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("session", sessionID).Logger()
	log.Debug().Msg("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbox := make(chan outgoingMessage, outboxSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, sessionID, updates, outbox, log)
		cancel()
		// unblocks a pending read when the writer stops first
		conn.Close()
	}()

	outbox <- newMessage("connected", sessionID, map[string]any{"sessionId": sessionID})

	state := &connectionState{sessionID: sessionID}
	h.readLoop(ctx, conn, state, outbox, log)

	cancel()
	<-done
	log.Debug().Int("sent", state.sent).Int("received", state.received).Msg("websocket closed")
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, state *connectionState, outbox chan<- outgoingMessage, log zerolog.Logger) {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read error")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		state.received++

		if msg.SessionID != "" && msg.SessionID != state.sessionID {
			if !send(ctx, outbox, errorMessage(state.sessionID, errors.New("session mismatch"))) {
				return
			}
			continue
		}

		if out, ok := h.handleMessage(ctx, state, msg); ok && !send(ctx, outbox, out) {
			return
		}
	}
}

// handleMessage returns the immediate response to one inbound frame, if any.
// Chat messages themselves reach the client through the session subscription.
func (h *Handler) handleMessage(ctx context.Context, state *connectionState, msg inboundMessage) (outgoingMessage, bool) {
	switch msg.Type {
	case "ping":
		return newMessage("pong", state.sessionID, nil), true
	case "message":
		if _, err := h.chatSvc.Send(ctx, state.sessionID, msg.Text); err != nil {
			return errorMessage(state.sessionID, err), true
		}
		state.sent++
		out := newMessage("typing", state.sessionID, map[string]bool{"typing": true})
		out.opensTyping = true
		return out, true
	case "suggestion":
		if _, err := h.chatSvc.TriggerSuggestion(ctx, state.sessionID, msg.Suggestion); err != nil {
			return errorMessage(state.sessionID, err), true
		}
		state.sent++
		return outgoingMessage{}, false
	default:
		return errorMessage(state.sessionID, errors.New("unsupported message type: "+msg.Type)), true
	}
}

// writeLoop is the only goroutine that writes to conn.
func (h *Handler) writeLoop(ctx context.Context, conn *websocket.Conn, sessionID string, updates <-chan chatModel.Message, outbox <-chan outgoingMessage, log zerolog.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	// typing:false is only sent to close a typing:true written on this connection
	typing := false

	write := func(msg outgoingMessage) bool {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-outbox:
			if !write(msg) {
				return
			}
			if msg.opensTyping {
				typing = true
			}
		case msg, ok := <-updates:
			if !ok {
				write(errorMessage(sessionID, chatService.ErrSessionNotFound))
				return
			}
			if !write(newMessage("message", sessionID, msg)) {
				return
			}
			if typing && msg.Author == chatModel.AuthorAssistant {
				if session, err := h.chatSvc.GetSession(ctx, sessionID); err == nil && !session.Typing() {
					if !write(newMessage("typing", sessionID, map[string]bool{"typing": false})) {
						return
					}
					typing = false
				}
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func send(ctx context.Context, outbox chan<- outgoingMessage, msg outgoingMessage) bool {
	select {
	case outbox <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func newMessage(kind, sessionID string, data any) outgoingMessage {
	return outgoingMessage{Type: kind, SessionID: sessionID, Data: data, Timestamp: time.Now().Unix()}
}

func errorMessage(sessionID string, err error) outgoingMessage {
	return newMessage("error", sessionID, map[string]string{"message": err.Error()})
}
