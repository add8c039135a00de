// Package memory implements an in-memory record store. It backs tests and
// local development where neither Redis nor PostgreSQL is available.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ol2009/classquest-hub/internal/infrastructure/persistence/recordstore"
)

// Store implements recordstore.Store with a mutex-guarded map.
// Snapshots are kept as encoded JSON so Get/Set round-trips behave
// exactly like the real backends.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string][]byte),
	}
}

// Get decodes the snapshot under key into dest.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	s.mu.RLock()
	data, ok := s.records[key]
	s.mu.RUnlock()

	if !ok {
		return recordstore.ErrNotFound
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	return nil
}

// Set encodes value as JSON and stores it under key.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %s: %v", recordstore.ErrSerialization, key, err)
	}

	s.mu.Lock()
	s.records[key] = data
	s.mu.Unlock()

	return nil
}

// Remove deletes the snapshot under key.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return recordstore.ErrKeyEmpty
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()

	return nil
}

// Len returns the number of stored snapshots. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SetRaw stores a pre-encoded snapshot verbatim. Test helper for seeding
// legacy or malformed data that Set would never produce.
func (s *Store) SetRaw(key string, data []byte) {
	s.mu.Lock()
	s.records[key] = append([]byte(nil), data...)
	s.mu.Unlock()
}
