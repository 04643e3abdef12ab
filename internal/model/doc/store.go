package doc

// Store exposes the explorer catalog.
type Store interface {
	Search(category, term string) []Doc
	Tutorials() []Tutorial
	Categories() []string
}

// MemoryStore implements Store with in-memory slices.
type MemoryStore struct {
	docs       []Doc
	tutorials  []Tutorial
	categories []string
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(docs []Doc, tutorials []Tutorial, categories []string) *MemoryStore {
	return &MemoryStore{
		docs:       append([]Doc(nil), docs...),
		tutorials:  append([]Tutorial(nil), tutorials...),
		categories: append([]string(nil), categories...),
	}
}

// Search returns docs in category that mention term, in catalog order.
func (s *MemoryStore) Search(category, term string) []Doc {
	out := make([]Doc, 0, len(s.docs))
	for _, d := range s.docs {
		if d.Matches(category, term) {
			out = append(out, d)
		}
	}
	return out
}

// Tutorials returns the tutorial list.
func (s *MemoryStore) Tutorials() []Tutorial {
	return append([]Tutorial(nil), s.tutorials...)
}

// Categories returns the category filters.
func (s *MemoryStore) Categories() []string {
	return append([]string(nil), s.categories...)
}

// HasCategory reports whether name is one of the category filters.
func HasCategory(s Store, name string) bool {
	for _, c := range s.Categories() {
		if c == name {
			return true
		}
	}
	return false
}
