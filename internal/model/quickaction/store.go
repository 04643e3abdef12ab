package quickaction

// Store exposes quick action retrieval for HTTP handlers.
type Store interface {
	List() []Action
	FindByID(id string) (Action, bool)
	Capabilities() []Capability
}

// MemoryStore implements Store with in-memory slices.
type MemoryStore struct {
	items        []Action
	capabilities []Capability
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Action, capabilities []Capability) *MemoryStore {
	return &MemoryStore{
		items:        append([]Action(nil), items...),
		capabilities: append([]Capability(nil), capabilities...),
	}
}

// List returns the quick actions in display order.
func (s *MemoryStore) List() []Action {
	return append([]Action(nil), s.items...)
}

// FindByID looks up a quick action by identifier.
func (s *MemoryStore) FindByID(id string) (Action, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Action{}, false
}

// Capabilities returns the capability cards.
func (s *MemoryStore) Capabilities() []Capability {
	return append([]Capability(nil), s.capabilities...)
}
