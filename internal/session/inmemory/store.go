package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/expense-tracker/internal/session"
)

// Store is an in-memory implementation of KeyValueStore.
// It is safe for concurrent use. Values are lost when the process exits.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewStore creates an empty in-memory key-value store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Get implements the KeyValueStore interface.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements the KeyValueStore interface.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete implements the KeyValueStore interface.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Ensure Store implements KeyValueStore interface.
var _ session.KeyValueStore = (*Store)(nil)
