package upload

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/metrics"
)

var (
	ErrNameRequired   = errors.New("repository name is required")
	ErrUploadNotFound = errors.New("upload not found")
	ErrClosed         = errors.New("upload service closed")
)

// MintedIPFSHash is the metadata hash every simulated mint resolves to.
const MintedIPFSHash = "QmXs7LhKnHuRQhgfgkDCNnSUXz8Xy5ZXorn6PcMMCQjTGr"

// Stage is the wizard tab an upload is on.
type Stage string

const (
	StageUpload Stage = "upload"
	StageNFT    Stage = "nft"
	StageDone   Stage = "done"
)

// Request is the details tab of the create-repository wizard.
type Request struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Visibility  string   `json:"visibility"`
	Language    string   `json:"language"`
	Files       []string `json:"files"`
}

// Upload is a snapshot of one simulated repository upload.
type Upload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Visibility  string    `json:"visibility"`
	Language    string    `json:"language,omitempty"`
	Files       []string  `json:"files,omitempty"`
	Progress    int       `json:"progress"`
	Stage       Stage     `json:"stage"`
	NFTMinted   bool      `json:"nftMinted"`
	IPFSHash    string    `json:"ipfsHash,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Finished reports whether the upload reached its last stage.
func (u Upload) Finished() bool {
	return u.Stage == StageDone
}

func (u Upload) clone() Upload {
	u.Files = append([]string(nil), u.Files...)
	return u
}

// Config controls the progress simulation.
type Config struct {
	Tick      time.Duration
	Step      int
	MintDelay time.Duration
}

// DefaultConfig advances 5% every 200ms and mints 2s after reaching 100%.
func DefaultConfig() Config {
	return Config{Tick: 200 * time.Millisecond, Step: 5, MintDelay: 2 * time.Second}
}

type entry struct {
	upload   Upload
	watchers map[uint64]chan Upload
}

// Service simulates repository uploads and NFT minting.
type Service struct {
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	uploads map[string]*entry
	seq     uint64
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates the upload simulator. Close must be called to stop running uploads.
func NewService(cfg Config, log zerolog.Logger, m *metrics.Metrics) *Service {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig().Tick
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultConfig().Step
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		cfg:     cfg,
		log:     log,
		metrics: m,
		uploads: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Create validates the details and starts the upload simulation.
func (s *Service) Create(req Request) (Upload, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Upload{}, ErrNameRequired
	}
	visibility := strings.ToLower(strings.TrimSpace(req.Visibility))
	if visibility == "" {
		visibility = "public"
	}

	now := time.Now().UTC()
	up := Upload{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Visibility:  visibility,
		Language:    strings.TrimSpace(req.Language),
		Files:       append([]string(nil), req.Files...),
		Stage:       StageUpload,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Upload{}, ErrClosed
	}
	s.uploads[up.ID] = &entry{upload: up, watchers: make(map[uint64]chan Upload)}
	s.wg.Add(1)
	s.mu.Unlock()

	s.metrics.RecordUploadStarted()
	s.log.Info().Str("upload", up.ID).Str("name", name).Int("files", len(up.Files)).Msg("upload started")

	go s.run(up.ID)
	return up.clone(), nil
}

// Get returns the latest snapshot of an upload.
func (s *Service) Get(id string) (Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.uploads[id]
	if !ok {
		return Upload{}, ErrUploadNotFound
	}
	return e.upload.clone(), nil
}

// Watch streams snapshots of an upload. Only the latest unread snapshot is kept, and the
// channel is closed once the upload is done. The cancel func may be called at any time.
func (s *Service) Watch(id string) (<-chan Upload, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrClosed
	}
	e, ok := s.uploads[id]
	if !ok {
		return nil, nil, ErrUploadNotFound
	}

	ch := make(chan Upload, 1)
	ch <- e.upload.clone()
	if e.upload.Finished() {
		close(ch)
		return ch, func() {}, nil
	}

	s.seq++
	key := s.seq
	e.watchers[key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if w, ok := e.watchers[key]; ok {
				delete(e.watchers, key)
				close(w)
			}
		})
	}
	return ch, cancel, nil
}

// Close stops all running simulations and waits for them to exit.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.uploads {
		for key, ch := range e.watchers {
			delete(e.watchers, key)
			close(ch)
		}
	}
}

func (s *Service) run(id string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}

		done := s.update(id, func(u *Upload) {
			u.Progress += s.cfg.Step
			if u.Progress >= 100 {
				u.Progress = 100
				u.Stage = StageNFT
			}
		})
		if done {
			break
		}
	}

	mint := time.NewTimer(s.cfg.MintDelay)
	defer mint.Stop()
	select {
	case <-s.ctx.Done():
		return
	case <-mint.C:
	}

	s.update(id, func(u *Upload) {
		u.Stage = StageDone
		u.NFTMinted = true
		u.IPFSHash = MintedIPFSHash
	})
	s.metrics.RecordUploadFinished()
	s.log.Info().Str("upload", id).Str("ipfs", MintedIPFSHash).Msg("repository nft minted")
}

// update applies fn, notifies watchers and reports whether the upload left the upload stage.
func (s *Service) update(id string, fn func(*Upload)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.uploads[id]
	if !ok {
		return true
	}
	fn(&e.upload)
	e.upload.UpdatedAt = time.Now().UTC()

	snap := e.upload.clone()
	for key, ch := range e.watchers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
		if snap.Finished() {
			delete(e.watchers, key)
			close(ch)
		}
	}
	return e.upload.Stage != StageUpload
}
