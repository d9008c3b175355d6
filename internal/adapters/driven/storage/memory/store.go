package memory

import (
	"context"
	"sync"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PersistenceStore = (*Store)(nil)

// Store is an in-memory implementation of driven.PersistenceStore for
// testing. It deep-copies on load and save so callers never share state
// with the store.
type Store struct {
	mu      sync.Mutex
	data    *domain.Store
	saves   int
	closed  bool
	loadErr error
	saveErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// LoadAll returns a copy of the last saved store.
func (s *Store) LoadAll(_ context.Context) (*domain.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.data == nil {
		return domain.NewStore(), nil
	}
	return s.data.Clone(), nil
}

// SaveAll replaces the stored copy.
func (s *Store) SaveAll(_ context.Context, data *domain.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	s.data = data.Clone()
	s.saves++
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Saves returns how many successful saves have happened.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FailLoad makes LoadAll return err until cleared with nil.
func (s *Store) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSave makes SaveAll return err until cleared with nil.
func (s *Store) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
