package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/morph/pkg/domain"
)

// Store implements ports.LayoutStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.Entry
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.Entry),
	}
}

// Save persists the entries in memory.
func (s *Store) Save(ctx context.Context, key string, entries []domain.Entry) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := cloneEntries(entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load retrieves the entries from memory.
func (s *Store) Load(ctx context.Context, key string) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.data[key]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}

	// Copy on read so the caller can't mutate store state through shared snapshots
	return cloneEntries(entries), nil
}

// Delete removes the entries.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns stored keys in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func cloneEntries(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
