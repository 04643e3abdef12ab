package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/polkaforge/polkaforge/backend/internal/model/repository"
)

// CloneHost serves the git remotes of dashboard repositories.
const CloneHost = "https://polkaforge.dev"

var ErrRepositoryNotFound = errors.New("repository not found")

// Config holds the simulated durations of the dashboard actions.
type Config struct {
	CloneDelay time.Duration
	ForkDelay  time.Duration
}

// DefaultConfig clones in 2s and forks in 1.5s.
func DefaultConfig() Config {
	return Config{CloneDelay: 2 * time.Second, ForkDelay: 1500 * time.Millisecond}
}

// Overview is the dashboard header plus the repository list.
type Overview struct {
	Repositories  []repository.Repository `json:"repositories"`
	TotalEarnings float64                 `json:"totalEarnings"`
	NFTCount      int                     `json:"nftCount"`
}

// CloneResult carries the command a user copies to clone a repository.
type CloneResult struct {
	RepositoryID string `json:"repositoryId"`
	URL          string `json:"url"`
	Command      string `json:"command"`
}

// Service runs the scripted dashboard actions.
type Service struct {
	store repository.Store
	cfg   Config
	log   zerolog.Logger
}

// NewService wires the dashboard.
func NewService(store repository.Store, cfg Config, log zerolog.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: log}
}

// Overview lists the repositories with the earnings total and NFT count.
// Every repository on the dashboard is minted, so the NFT count is the list length.
func (s *Service) Overview() Overview {
	repos := s.store.List()
	total := 0.0
	for _, r := range repos {
		total += r.DOTEarned
	}
	return Overview{Repositories: repos, TotalEarnings: total, NFTCount: len(repos)}
}

// Get returns one repository.
func (s *Service) Get(id string) (repository.Repository, error) {
	repo, ok := s.store.FindByID(id)
	if !ok {
		return repository.Repository{}, ErrRepositoryNotFound
	}
	return repo, nil
}

// Clone returns the git clone command after the simulated delay.
func (s *Service) Clone(ctx context.Context, id string) (CloneResult, error) {
	repo, err := s.Get(id)
	if err != nil {
		return CloneResult{}, err
	}
	if err := wait(ctx, s.cfg.CloneDelay); err != nil {
		return CloneResult{}, err
	}

	url := fmt.Sprintf("%s/%s.git", CloneHost, repo.Name)
	s.log.Info().Str("repository", repo.Name).Msg("repository cloned")
	return CloneResult{RepositoryID: repo.ID, URL: url, Command: "git clone " + url}, nil
}

// Fork copies a repository to the top of the dashboard after the simulated delay.
// The fork starts with no earnings and the next NFT id.
func (s *Service) Fork(ctx context.Context, id string) (repository.Repository, error) {
	repo, err := s.Get(id)
	if err != nil {
		return repository.Repository{}, err
	}
	if err := wait(ctx, s.cfg.ForkDelay); err != nil {
		return repository.Repository{}, err
	}

	repo.ID = uuid.NewString()
	repo.Name += "-fork"
	repo.Forks++
	repo.DOTEarned = 0
	repo.LastCommit = "just now"
	forked := s.store.Prepend(repo)

	s.log.Info().Str("source", id).Str("fork", forked.ID).Str("nft", forked.NFTID).Msg("repository forked")
	return forked, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
