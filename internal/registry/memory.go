package registry

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps entries in a map guarded by a mutex. Entries are copied
// on the way in and out, so callers cannot alias store state.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init prepares the store.
func (s *MemoryStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	return nil
}

// Put inserts or replaces an entry, stamping CreatedAt on first insert and
// UpdatedAt always.
func (s *MemoryStore) Put(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return errStoreNotInitialized
	}

	now := time.Now().UTC()
	if existing, ok := s.entries[entry.Name]; ok {
		entry.CreatedAt = existing.CreatedAt
	} else {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	s.entries[entry.Name] = copyEntry(entry)
	return nil
}

// Get returns the named entry and whether it exists.
func (s *MemoryStore) Get(ctx context.Context, name string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entries == nil {
		return Entry{}, false, errStoreNotInitialized
	}

	entry, ok := s.entries[name]
	if !ok {
		return Entry{}, false, nil
	}
	return copyEntry(entry), true, nil
}

// List returns all entries ordered by name.
func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entries == nil {
		return nil, errStoreNotInitialized
	}

	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, copyEntry(entry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes the named entry.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return errStoreNotInitialized
	}
	if _, ok := s.entries[name]; !ok {
		return ErrNotFound
	}
	delete(s.entries, name)
	return nil
}

// Close releases nothing for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func copyEntry(e Entry) Entry {
	if e.Metadata != nil {
		meta := make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			meta[k] = v
		}
		e.Metadata = meta
	}
	return e
}
