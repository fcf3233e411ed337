package memory

import (
	"context"
	"sync"
)

// Store is an in-process key-value store. Data lives only as long as the
// process; it backs tests and single-run CLI sessions.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func New() *Store {
	return &Store{values: map[string]string{}}
}

// NewWithValues seeds the store, mostly for tests of pre-existing data.
func NewWithValues(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.sets++
	return nil
}

// Sets returns how many writes the store has accepted.
func (s *Store) Sets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *Store) Close() error { return nil }
