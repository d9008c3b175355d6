// Package file provides a JSON file implementation of driven.PersistenceStore.
//
// The whole store is one JSON document written atomically through a
// temporary file and rename. Watch reports edits made by other processes
// using fsnotify and ignores the store's own writes.
package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gplanner/gplan/internal/core/domain"
	"github.com/gplanner/gplan/internal/core/ports/driven"
	"github.com/gplanner/gplan/internal/logger"
)

// StoreFile is the file name used inside the data directory.
const StoreFile = "projects.json"

// watchDebounce collapses the burst of events one rename produces.
const watchDebounce = 100 * time.Millisecond

var (
	_ driven.PersistenceStore = (*Store)(nil)
	_ driven.StoreWatcher     = (*Store)(nil)
)

// Store keeps the project store in a single JSON file.
type Store struct {
	path string

	mu       sync.Mutex
	lastSeen [sha256.Size]byte
}

// NewStore creates a file store in dataDir.
// If dataDir is empty, defaults to ~/.gplan/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".gplan", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, StoreFile)}, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the store file. A missing file is an empty store.
// A file that cannot be decoded is copied aside with a timestamp suffix
// before the error is returned so the next save cannot destroy it.
func (s *Store) LoadAll(_ context.Context) (*domain.Store, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}

	s.remember(data)

	out := domain.NewStore()
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		backup := s.backup(data)
		return nil, fmt.Errorf("decoding store (backup at %s): %w", backup, err)
	}
	out.Normalize()
	return out, nil
}

// SaveAll writes the store atomically.
func (s *Store) SaveAll(_ context.Context, data *domain.Store) error {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".projects-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	s.remember(body)
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing store: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Watch calls onChange when the store file changes on disk and the new
// bytes differ from what this store last read or wrote.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	// The directory is watched because atomic renames replace the file.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				if s.changedOnDisk() {
					onChange()
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("store watcher: %v", err)
		}
	}
}

func (s *Store) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(s.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// changedOnDisk reports whether the file now holds bytes this store has
// not seen, and records them.
func (s *Store) changedOnDisk() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sum == s.lastSeen {
		return false
	}
	s.lastSeen = sum
	return true
}

func (s *Store) remember(data []byte) {
	sum := sha256.Sum256(data)
	s.mu.Lock()
	s.lastSeen = sum
	s.mu.Unlock()
}

func (s *Store) backup(data []byte) string {
	name := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, data, 0600); err != nil {
		logger.Warn("could not back up corrupt store: %v", err)
		return ""
	}
	return name
}
