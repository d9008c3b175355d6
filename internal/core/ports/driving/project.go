package driving

import (
	"context"
	"io"

	"github.com/gplanner/gplan/internal/core/domain"
)

// ProjectService manages the project list and the open project.
// Every mutation marks the workspace dirty; saving happens after a
// debounce or on an explicit Save.
type ProjectService interface {
	// Load reads the store. Corrupt data is replaced with an empty store.
	Load(ctx context.Context) error

	// Reload re-reads the store after an external change, keeping the
	// open project open when it still exists.
	Reload(ctx context.Context) error

	// List returns project metadata, newest first.
	List() []domain.ProjectMeta

	// Create adds a project at the front of the list.
	Create(name string) (domain.ProjectMeta, error)

	// Rename changes a project's name.
	Rename(id, name string) error

	// SetCover sets the cover image (a data URI, or empty to clear).
	SetCover(id, cover string) error

	// Delete removes a project and its content.
	Delete(id string) error

	// Open makes id the active project, flushing pending edits first.
	Open(ctx context.Context, id string) error

	// Active returns the open project.
	Active() (domain.ProjectMeta, bool)

	// View runs fn against the open project's content under the workspace lock.
	View(fn func(*domain.ProjectContent) error) error

	// Mutate runs fn against the open project's content and marks it dirty
	// when fn succeeds.
	Mutate(fn func(*domain.ProjectContent) error) error

	// Save writes immediately, bypassing the debounce.
	Save(ctx context.Context) error

	// Status reports the autosave state.
	Status() domain.SaveStatus

	// Export writes a snapshot of a project, open or not.
	Export(id string, w io.Writer) error

	// ExportExtension returns the file extension Export produces.
	ExportExtension() string

	// Close flushes pending edits and stops the autosaver.
	Close(ctx context.Context) error
}
