package services

import (
	"context"
	"sync"
	"time"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/logger"
)

// DefaultAutosaveDelay is the quiet period before a dirty workspace is written.
const DefaultAutosaveDelay = 2 * time.Second

// SaveFunc writes the current state.
type SaveFunc func(ctx context.Context) error

// Autosaver debounces saves. It moves Clean -> Dirty (timer pending) ->
// Saving -> Clean. An edit that arrives while Saving leaves the saver Dirty
// with a fresh timer once the write finishes, so no edit is dropped. At
// most one write is outstanding at any time.
type Autosaver struct {
	delay time.Duration
	save  SaveFunc

	mu              sync.Mutex
	status          domain.SaveStatus
	timer           *time.Timer
	inFlight        chan struct{} // closed when the running save ends
	dirtyDuringSave bool
	lastErr         error
	onError         func(error)
	stopped         bool
}

// NewAutosaver creates an autosaver that calls save after delay of quiet.
func NewAutosaver(delay time.Duration, save SaveFunc) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		delay:  delay,
		save:   save,
		status: domain.StatusSaved,
	}
}

// OnError registers a hook called with each failed background save.
func (a *Autosaver) OnError(fn func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = fn
}

// Status returns the current save state.
func (a *Autosaver) Status() domain.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Err returns the error of the last failed save, cleared by a successful one.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// MarkDirty records an edit and restarts the debounce timer.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inFlight != nil {
		a.dirtyDuringSave = true
		return
	}
	a.status = domain.StatusUnsaved
	a.arm()
}

// arm (re)starts the debounce timer. Caller must hold the lock.
func (a *Autosaver) arm() {
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() {
		if err := a.run(context.Background()); err != nil {
			logger.Debug("autosave failed: %v", err)
		}
	})
}

// Flush saves immediately if there are unsaved edits and waits until the
// state is clean or a save fails.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	for {
		if err := a.run(ctx); err != nil {
			return err
		}
		if a.Status() == domain.StatusSaved {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Stop cancels the timer and flushes. No timers are armed afterwards.
func (a *Autosaver) Stop(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	return a.Flush(ctx)
}

// run performs one save if the state is dirty, waiting for any save
// already in flight first.
func (a *Autosaver) run(ctx context.Context) error {
	a.mu.Lock()
	for a.inFlight != nil {
		wait := a.inFlight
		a.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		a.mu.Lock()
	}

	if a.status == domain.StatusSaved {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	done := make(chan struct{})
	a.inFlight = done
	a.status = domain.StatusSaving
	a.dirtyDuringSave = false
	a.mu.Unlock()

	err := a.save(ctx)

	a.mu.Lock()
	a.inFlight = nil
	close(done)

	var hook func(error)
	switch {
	case err != nil:
		err = &domain.PersistenceError{Op: "save", Err: err}
		a.lastErr = err
		a.status = domain.StatusUnsaved
		a.arm()
		hook = a.onError
	case a.dirtyDuringSave:
		a.lastErr = nil
		a.status = domain.StatusUnsaved
		a.arm()
	default:
		a.lastErr = nil
		a.status = domain.StatusSaved
	}
	a.mu.Unlock()

	if hook != nil {
		hook(err)
	}
	return err
}
