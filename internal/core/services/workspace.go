package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/core/ports/driving"
	"github.com/gplanner/gplan/internal/logger"
)

// Ensure Workspace implements the interface.
var _ driving.ProjectService = (*Workspace)(nil)

// Workspace holds the whole project store in memory together with the
// open project. It is the single owner of persisted state; every other
// service edits content through View and Mutate.
type Workspace struct {
	store    driven.PersistenceStore
	exporter driven.ProjectExporter
	autosave *Autosaver
	now      func() time.Time
	newID    func() string

	mu           sync.RWMutex
	data         *domain.Store
	activeID     string
	contentDirty bool
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithAutosaveDelay sets the debounce delay.
func WithAutosaveDelay(d time.Duration) WorkspaceOption {
	return func(w *Workspace) {
		w.autosave = NewAutosaver(d, w.persist)
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) { w.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) WorkspaceOption {
	return func(w *Workspace) { w.newID = newID }
}

// WithProjectExporter enables Export.
func WithProjectExporter(e driven.ProjectExporter) WorkspaceOption {
	return func(w *Workspace) { w.exporter = e }
}

// NewWorkspace creates a workspace over store. Call Load before use.
func NewWorkspace(store driven.PersistenceStore, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
		data:  domain.NewStore(),
	}
	w.autosave = NewAutosaver(DefaultAutosaveDelay, w.persist)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnSaveError registers a hook for failed background saves.
func (w *Workspace) OnSaveError(fn func(error)) {
	w.autosave.OnError(fn)
}

// Load reads the store. Unreadable data is replaced by an empty store and
// reported as a warning.
func (w *Workspace) Load(ctx context.Context) error {
	data, err := w.store.LoadAll(ctx)
	if err != nil {
		logger.Warn("project store unreadable, starting empty: %v", err)
		data = domain.NewStore()
	}
	data.Normalize()

	w.mu.Lock()
	w.data = data
	if w.data.Project(w.activeID) == nil {
		w.activeID = ""
	}
	w.contentDirty = false
	w.mu.Unlock()

	logger.Debug("loaded %d projects", len(data.Projects))
	return nil
}

// Reload re-reads the store after an external change. Local edits that
// are not yet saved win: the reload is skipped and the next save
// overwrites the external change.
func (w *Workspace) Reload(ctx context.Context) error {
	if w.autosave.Status() != domain.StatusSaved {
		logger.Warn("store changed on disk while edits are pending; keeping local edits")
		return nil
	}
	data, err := w.store.LoadAll(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}
	data.Normalize()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = data
	if w.data.Project(w.activeID) == nil {
		w.activeID = ""
	}
	return nil
}

// List returns a copy of the project list in stored order. New projects
// are inserted at the front.
func (w *Workspace) List() []domain.ProjectMeta {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]domain.ProjectMeta, len(w.data.Projects))
	copy(out, w.data.Projects)
	return out
}

// Create adds an empty project at the front of the list.
func (w *Workspace) Create(name string) (domain.ProjectMeta, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.UntitledProject
	}
	meta := domain.ProjectMeta{ID: w.newID(), Name: name}
	meta.Touch(w.now())

	w.mu.Lock()
	w.data.Projects = append([]domain.ProjectMeta{meta}, w.data.Projects...)
	w.data.Contents[meta.ID] = domain.NewProjectContent()
	w.mu.Unlock()

	w.autosave.MarkDirty()
	logger.Debug("created project %s (%s)", meta.ID, meta.Name)
	return meta, nil
}

// Rename changes a project's name.
func (w *Workspace) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	return w.editMeta(id, func(p *domain.ProjectMeta) { p.Name = name })
}

// SetCover sets or clears the cover image.
func (w *Workspace) SetCover(id, cover string) error {
	return w.editMeta(id, func(p *domain.ProjectMeta) { p.Cover = cover })
}

func (w *Workspace) editMeta(id string, fn func(*domain.ProjectMeta)) error {
	w.mu.Lock()
	p := w.data.Project(id)
	if p == nil {
		w.mu.Unlock()
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	fn(p)
	p.Touch(w.now())
	w.mu.Unlock()

	w.autosave.MarkDirty()
	return nil
}

// Delete removes a project and its content. Deleting the open project
// closes it.
func (w *Workspace) Delete(id string) error {
	w.mu.Lock()
	if !w.data.Remove(id) {
		w.mu.Unlock()
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if w.activeID == id {
		w.activeID = ""
		w.contentDirty = false
	}
	w.mu.Unlock()

	w.autosave.MarkDirty()
	return nil
}

// Open flushes pending edits and then switches to project id.
func (w *Workspace) Open(ctx context.Context, id string) error {
	w.mu.RLock()
	exists := w.data.Project(id) != nil
	current := w.activeID
	w.mu.RUnlock()

	if !exists {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	if current == id {
		return nil
	}
	if err := w.autosave.Flush(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.activeID = id
	w.contentDirty = false
	w.mu.Unlock()

	logger.Debug("opened project %s", id)
	return nil
}

// Active returns the open project.
func (w *Workspace) Active() (domain.ProjectMeta, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if p := w.data.Project(w.activeID); p != nil {
		return *p, true
	}
	return domain.ProjectMeta{}, false
}

// View runs fn against the open project's content without marking it dirty.
// fn must not retain the pointer.
func (w *Workspace) View(fn func(*domain.ProjectContent) error) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	c, ok := w.data.Contents[w.activeID]
	if w.activeID == "" || !ok {
		return domain.ErrNoActiveProject
	}
	return fn(c)
}

// Mutate runs fn against the open project's content and marks it dirty
// when fn succeeds.
func (w *Workspace) Mutate(fn func(*domain.ProjectContent) error) error {
	w.mu.Lock()
	if w.activeID == "" || w.data.Project(w.activeID) == nil {
		w.mu.Unlock()
		return domain.ErrNoActiveProject
	}
	if err := fn(w.data.Content(w.activeID)); err != nil {
		w.mu.Unlock()
		return err
	}
	w.contentDirty = true
	w.mu.Unlock()

	w.autosave.MarkDirty()
	return nil
}

// Save writes immediately.
func (w *Workspace) Save(ctx context.Context) error {
	w.autosave.MarkDirty()
	return w.autosave.Flush(ctx)
}

// Status reports the autosave state.
func (w *Workspace) Status() domain.SaveStatus {
	return w.autosave.Status()
}

// Close flushes pending edits, stops the autosaver and closes the store.
// The store is closed even when the final save fails.
func (w *Workspace) Close(ctx context.Context) error {
	err := w.autosave.Stop(ctx)
	if cerr := w.store.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", cerr))
	}
	return err
}

// Export writes a snapshot of project id. The project does not need to
// be open.
func (w *Workspace) Export(id string, out io.Writer) error {
	if w.exporter == nil {
		return errors.New("project export not configured")
	}
	w.mu.RLock()
	p := w.data.Project(id)
	if p == nil {
		w.mu.RUnlock()
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	meta := *p
	content := domain.NewProjectContent()
	if c := w.data.Contents[id]; c != nil {
		content = c.Clone()
	}
	w.mu.RUnlock()

	if err := w.exporter.ExportProject(out, meta, content); err != nil {
		return fmt.Errorf("export project %s: %w", id, err)
	}
	return nil
}

// ExportExtension returns the file extension Export produces.
func (w *Workspace) ExportExtension() string {
	if w.exporter == nil {
		return ""
	}
	return w.exporter.Extension()
}

// persist snapshots the store under the lock and writes it outside.
func (w *Workspace) persist(ctx context.Context) error {
	w.mu.Lock()
	if w.contentDirty {
		if p := w.data.Project(w.activeID); p != nil {
			p.Touch(w.now())
		}
		w.contentDirty = false
	}
	snapshot := w.data.Clone()
	w.mu.Unlock()

	logger.Debug("saving %d projects", len(snapshot.Projects))
	return w.store.SaveAll(ctx, snapshot)
}
