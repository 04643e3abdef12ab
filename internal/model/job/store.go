package job

import "sync"

// Store exposes job board persistence.
type Store interface {
	Search(term string) []Job
	FindByID(id int) (Job, bool)
	Add(job Job) Job
	IncrementApplicants(id int) (Job, bool)
}

// MemoryStore keeps listings in memory, newest posts last.
type MemoryStore struct {
	mu     sync.RWMutex
	items  []Job
	nextID int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied listings.
func NewMemoryStore(items []Job) *MemoryStore {
	s := &MemoryStore{items: make([]Job, 0, len(items))}
	for _, item := range items {
		s.items = append(s.items, item.clone())
		if item.ID > s.nextID {
			s.nextID = item.ID
		}
	}
	return s
}

// Search returns listings matching term in store order.
func (s *MemoryStore) Search(term string) []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Job, 0, len(s.items))
	for _, item := range s.items {
		if item.Matches(term) {
			out = append(out, item.clone())
		}
	}
	return out
}

// FindByID looks up a listing.
func (s *MemoryStore) FindByID(id int) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item.clone(), true
		}
	}
	return Job{}, false
}

// Add stores a new listing and assigns it the next identifier.
func (s *MemoryStore) Add(job Job) Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	job.ID = s.nextID
	job = job.clone()
	s.items = append(s.items, job)
	return job.clone()
}

// IncrementApplicants bumps the applicant count of a listing.
func (s *MemoryStore) IncrementApplicants(id int) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Applicants++
			return s.items[i].clone(), true
		}
	}
	return Job{}, false
}
