package driven

import (
	"context"

	"github.com/gplanner/gplan/internal/core/domain"
)

// PersistenceStore loads and saves the whole store in one piece.
// There is no partial persistence: every save replaces everything.
type PersistenceStore interface {
	// LoadAll reads the store. A store that was never written loads as
	// an empty store, not an error. Unreadable or corrupt data is an error.
	LoadAll(ctx context.Context) (*domain.Store, error)

	// SaveAll replaces the persisted store with s.
	SaveAll(ctx context.Context, s *domain.Store) error

	// Close releases resources.
	Close() error
}

// StoreWatcher is implemented by stores that can report external changes.
type StoreWatcher interface {
	// Watch calls onChange whenever the backing data is modified by someone
	// other than this process. It blocks until ctx is cancelled.
	Watch(ctx context.Context, onChange func()) error
}
