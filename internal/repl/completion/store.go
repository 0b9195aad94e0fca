package completion

import "strings"

// DefaultMaxCandidates bounds a single completion request.
const DefaultMaxCandidates = 4096

// Store holds the candidates produced for the current completion request.
// It never grows past its limit: adds beyond the limit are dropped and the
// store is marked truncated.
type Store struct {
	items     []string
	limit     int
	truncated bool

	// seen is non-nil only for unique stores.
	seen map[string]struct{}
}

// NewStore creates an empty Store bounded by limit. A non-positive limit
// selects DefaultMaxCandidates.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	return &Store{limit: limit}
}

// NewUniqueStore creates a Store that silently ignores names it already holds.
func NewUniqueStore(limit int) *Store {
	s := NewStore(limit)
	s.seen = make(map[string]struct{})
	return s
}

// Reset empties the store for a new request.
func (s *Store) Reset() {
	s.items = s.items[:0]
	s.truncated = false
	if s.seen != nil {
		clear(s.seen)
	}
}

// Add appends a copy of name. It reports whether the name was stored.
func (s *Store) Add(name string) bool {
	if s.seen != nil {
		if _, dup := s.seen[name]; dup {
			return false
		}
	}
	if len(s.items) >= s.limit {
		s.truncated = true
		return false
	}

	owned := strings.Clone(name)
	s.items = append(s.items, owned)
	if s.seen != nil {
		s.seen[owned] = struct{}{}
	}
	return true
}

// Get returns the i-th candidate, or false when i is out of range.
func (s *Store) Get(i int) (string, bool) {
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// Count returns the number of stored candidates.
func (s *Store) Count() int {
	return len(s.items)
}

// Limit returns the maximum number of candidates the store accepts.
func (s *Store) Limit() int {
	return s.limit
}

// Full reports whether the store has reached its limit.
func (s *Store) Full() bool {
	return len(s.items) >= s.limit
}

// Truncated reports whether an Add was dropped because the store was full.
func (s *Store) Truncated() bool {
	return s.truncated
}
