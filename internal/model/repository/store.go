package repository

import "sync"

// Store exposes dashboard repository persistence.
type Store interface {
	List() []Repository
	FindByID(id string) (Repository, bool)
	Prepend(repo Repository) Repository
}

// MemoryStore keeps repositories in memory, newest first.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Repository
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied repositories.
func NewMemoryStore(items []Repository) *MemoryStore {
	s := &MemoryStore{items: make([]Repository, 0, len(items))}
	for _, item := range items {
		s.items = append(s.items, item.clone())
	}
	return s
}

// List returns the repositories in display order.
func (s *MemoryStore) List() []Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Repository, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

// FindByID looks up a repository.
func (s *MemoryStore) FindByID(id string) (Repository, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.clone(), true
		}
	}
	return Repository{}, false
}

// Prepend stores repo at the top of the list and assigns it the next NFT id.
func (s *MemoryStore) Prepend(repo Repository) Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	repo = repo.clone()
	repo.NFTID = NFTLabel(len(s.items) + 1)
	s.items = append([]Repository{repo}, s.items...)
	return repo.clone()
}
