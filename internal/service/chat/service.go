package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/polkaforge/polkaforge/backend/internal/analysis/intent"
	"github.com/polkaforge/polkaforge/backend/internal/metrics"
	"github.com/polkaforge/polkaforge/backend/internal/model/chat"
	"github.com/polkaforge/polkaforge/backend/internal/model/reply"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmptyMessage       = errors.New("message text is required")
	ErrRateLimited        = errors.New("too many messages, slow down")
	ErrSuggestionRequired = errors.New("suggestion label and type are required")
	ErrClosed             = errors.New("chat service closed")
)

const subscriberBuffer = 16

// Config tunes the simulated assistant.
type Config struct {
	ReplyDelay    time.Duration
	RatePerSecond float64
	RateBurst     int
	SessionTTL    time.Duration
}

// DefaultConfig mirrors the demo front-end: replies arrive 1.5s after a send.
func DefaultConfig() Config {
	return Config{
		ReplyDelay:    1500 * time.Millisecond,
		RatePerSecond: 2,
		RateBurst:     5,
		SessionTTL:    30 * time.Minute,
	}
}

// Option customises a Service.
type Option func(*Service)

// WithScheduler replaces the wall-clock scheduler, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(svc *Service) { svc.scheduler = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithDispatcher replaces the built-in dispatcher.
func WithDispatcher(d *intent.Dispatcher, greeting reply.Template) Option {
	return func(svc *Service) {
		svc.dispatcher = d
		svc.greeting = greeting
	}
}

// WithMetrics enables metrics recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(svc *Service) { svc.log = l }
}

// Service encapsulates conversation state management.
type Service struct {
	mu         sync.RWMutex
	sessions   map[string]*conversation
	closed     bool
	cfg        Config
	dispatcher *intent.Dispatcher
	greeting   reply.Template
	scheduler  Scheduler
	now        func() time.Time
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

type conversation struct {
	session     chat.Session
	messages    []chat.Message
	lastID      int64
	limiter     *rate.Limiter
	timers      map[uint64]Timer
	subscribers map[uint64]chan chat.Message
	seq         uint64
}

// NewService bootstraps the in-memory chat service.
func NewService(cfg Config, opts ...Option) *Service {
	svc := &Service{
		sessions:   make(map[string]*conversation),
		cfg:        cfg,
		dispatcher: intent.Default(),
		greeting:   reply.Default().Greeting,
		scheduler:  WallClock(),
		now:        func() time.Time { return time.Now().UTC() },
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) newLimiter() *rate.Limiter {
	if s.cfg.RatePerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := s.cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), burst)
}

// CreateSession provisions an anonymous session seeded with the assistant greeting.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	now := s.now()
	conv := &conversation{
		session: chat.Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
			LastSeen:  now,
		},
		messages:    make([]chat.Message, 0, 16),
		limiter:     s.newLimiter(),
		timers:      make(map[uint64]Timer),
		subscribers: make(map[uint64]chan chat.Message),
	}

	greeting := chat.FromTemplate(conv.session.ID, s.greeting.Clone())
	conv.appendMessage(greeting, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return chat.Session{}, ErrClosed
	}
	s.sessions[conv.session.ID] = conv
	s.metrics.SetActiveSessions(len(s.sessions))

	s.log.Debug().Str("session", conv.session.ID).Msg("session created")
	return conv.session, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return conv.session, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(conv.messages))
	copy(copied, conv.messages)
	return copied, nil
}

// Preview dispatches text without touching any session.
func (s *Service) Preview(text string) intent.Match {
	return s.dispatcher.Dispatch(text)
}

// Send appends the user's message and schedules the canned reply after the configured delay.
// Overlapping sends are not serialised: each one gets its own reply.
func (s *Service) Send(_ context.Context, sessionID, text string) (chat.Message, error) {
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}
	if !conv.limiter.Allow() {
		s.metrics.RecordRateLimited()
		return chat.Message{}, ErrRateLimited
	}

	now := s.now()
	userMsg := conv.appendMessage(chat.Message{
		SessionID: sessionID,
		Author:    chat.AuthorUser,
		Text:      text,
	}, now)
	conv.publish(userMsg, s.log)

	match := s.dispatcher.Dispatch(text)
	s.metrics.RecordDispatch(match.Template.Name)
	s.log.Debug().
		Str("session", sessionID).
		Str("template", match.Template.Name).
		Str("keyword", match.Keyword).
		Msg("input dispatched")

	conv.seq++
	key := conv.seq
	conv.session.Pending++
	conv.timers[key] = s.scheduler.AfterFunc(s.cfg.ReplyDelay, func() {
		s.deliver(sessionID, key, userMsg.ID, match.Template)
	})

	return userMsg, nil
}

func (s *Service) deliver(sessionID string, key uint64, replyTo int64, tpl reply.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if _, pending := conv.timers[key]; !pending {
		return
	}
	delete(conv.timers, key)
	conv.session.Pending--

	answer := chat.FromTemplate(sessionID, tpl)
	answer.ReplyTo = replyTo
	msg := conv.appendMessage(answer, s.now())
	conv.publish(msg, s.log)
	s.metrics.RecordReply()
}

// TriggerSuggestion answers a suggestion button press immediately.
func (s *Service) TriggerSuggestion(_ context.Context, sessionID string, suggestion reply.Suggestion) (chat.Message, error) {
	label := strings.TrimSpace(suggestion.Label)
	kind := strings.TrimSpace(suggestion.Type)
	if label == "" || kind == "" {
		return chat.Message{}, ErrSuggestionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	msg := conv.appendMessage(chat.Message{
		SessionID: sessionID,
		Author:    chat.AuthorAssistant,
		Text:      fmt.Sprintf("Executing %s... This would normally trigger the %s functionality.", label, kind),
	}, s.now())
	conv.publish(msg, s.log)
	return msg, nil
}

// Subscribe streams messages appended to the session after the call. The returned
// cancel func releases the subscription and closes the channel.
func (s *Service) Subscribe(sessionID string) (<-chan chat.Message, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	conv.seq++
	key := conv.seq
	ch := make(chan chat.Message, subscriberBuffer)
	conv.subscribers[key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := conv.subscribers[key]; ok {
				delete(conv.subscribers, key)
				close(sub)
			}
		})
	}
	return ch, cancel, nil
}

// DeleteSession drops a session, cancelling undelivered replies.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	conv.shutdown()
	delete(s.sessions, sessionID)
	s.metrics.SetActiveSessions(len(s.sessions))
	return nil
}

// Sweep evicts idle sessions with no reply in flight and returns how many were removed.
func (s *Service) Sweep() int {
	if s.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, conv := range s.sessions {
		if conv.session.Pending == 0 && conv.session.LastSeen.Before(cutoff) {
			conv.shutdown()
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.metrics.SetActiveSessions(len(s.sessions))
		s.log.Info().Int("evicted", removed).Msg("idle sessions swept")
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close stops pending replies and releases all subscribers.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, conv := range s.sessions {
		conv.shutdown()
		delete(s.sessions, id)
	}
	s.metrics.SetActiveSessions(0)
}

func (c *conversation) appendMessage(msg chat.Message, now time.Time) chat.Message {
	c.lastID++
	msg.ID = c.lastID
	msg.Timestamp = now
	c.messages = append(c.messages, msg)
	c.session.LastSeen = now
	return msg
}

func (c *conversation) publish(msg chat.Message, log zerolog.Logger) {
	for key, ch := range c.subscribers {
		select {
		case ch <- msg:
		default:
			log.Warn().
				Str("session", msg.SessionID).
				Uint64("subscriber", key).
				Int64("message", msg.ID).
				Msg("subscriber too slow, message dropped")
		}
	}
}

func (c *conversation) shutdown() {
	for key, timer := range c.timers {
		timer.Stop()
		delete(c.timers, key)
	}
	c.session.Pending = 0
	for key, ch := range c.subscribers {
		delete(c.subscribers, key)
		close(ch)
	}
}
