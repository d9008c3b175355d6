package services

import (
	"sync"

	"github.com/gplanner/gplan/internal/core/domain"
)

// OutlineTracker remembers the last outline published per document and
// notifies listeners only when it changes.
type OutlineTracker struct {
	mu        sync.Mutex
	last      map[string][]domain.Heading
	listeners []func(docID string, outline []domain.Heading)
}

// NewOutlineTracker creates an empty tracker.
func NewOutlineTracker() *OutlineTracker {
	return &OutlineTracker{last: map[string][]domain.Heading{}}
}

// Subscribe registers fn for outline changes.
func (t *OutlineTracker) Subscribe(fn func(docID string, outline []domain.Heading)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Publish records outline for docID and reports whether it differed from
// the previous one. Listeners run outside the lock.
func (t *OutlineTracker) Publish(docID string, outline []domain.Heading) bool {
	t.mu.Lock()
	prev, seen := t.last[docID]
	if seen && sameOutline(prev, outline) {
		t.mu.Unlock()
		return false
	}
	t.last[docID] = append([]domain.Heading(nil), outline...)
	listeners := append([]func(string, []domain.Heading){}, t.listeners...)
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(docID, outline)
	}
	return true
}

// Forget drops the remembered outline of docID.
func (t *OutlineTracker) Forget(docID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, docID)
}

func sameOutline(a, b []domain.Heading) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
