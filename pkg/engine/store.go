package engine

import "github.com/sigil-dev/sigil/pkg/token"

// FactStore maps facts to their proof entries while preserving insertion
// order. The domain leaves the enumeration order of "first" check
// results open; this store fixes the tie-break to stable insertion
// order, never map iteration order.
type FactStore struct {
	order   []string
	entries map[string]*Entry
}

// NewFactStore returns an empty store.
func NewFactStore() *FactStore {
	return &FactStore{entries: make(map[string]*Entry)}
}

// Put stores an entry under its fact. A colliding fact keeps its
// original position but the entry is replaced, so a block's own facts
// shadow propagated ones.
func (s *FactStore) Put(e *Entry) {
	key := e.Fact.Key()
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = e
}

// Get looks up the stored entry for a ground fact. This is how callers
// recover a fact's true origin after unification re-tagged it.
func (s *FactStore) Get(f token.Fact) (*Entry, bool) {
	e, ok := s.entries[f.Key()]
	return e, ok
}

// Len returns the number of stored facts.
func (s *FactStore) Len() int {
	return len(s.order)
}

// Facts returns the stored facts in insertion order.
func (s *FactStore) Facts() []token.Fact {
	out := make([]token.Fact, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key].Fact)
	}
	return out
}

// Entries returns the stored entries in insertion order.
func (s *FactStore) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out
}
