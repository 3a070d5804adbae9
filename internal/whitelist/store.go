// Package whitelist persists the set of problem keys the user has approved.
// The store is a newline-delimited text file, one key per line; order is
// kept for readability and diffing, membership ignores it.
package whitelist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// Store is a persistent, append-only set of whitelisted problem keys.
// A missing or unreadable file behaves as an empty whitelist; the first
// append creates it.
type Store struct {
	path string

	mu      sync.Mutex
	entries map[string]bool
	loaded  bool
}

// New creates a store backed by the file at path. The file is not touched
// until the first read or append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the whitelist file.
func (s *Store) Path() string { return s.path }

// Contains reports whether a key has been whitelisted.
func (s *Store) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadLocked()
	return s.entries[key]
}

// Add appends a key to the whitelist file, skipping keys already present.
// Appends from concurrent processes are serialized with an advisory lock
// on the whitelist file.
func (s *Store) Add(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create whitelist directory: %w", err)
	}

	lock := flock.New(s.path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock whitelist %s: %w", s.path, err)
	}
	defer func() { _ = lock.Unlock() }()

	// Re-read under the lock so appends from other processes are seen.
	s.loaded = false
	s.loadLocked()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open whitelist %s: %w", s.path, err)
	}
	defer file.Close()

	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" || s.entries[key] {
			continue
		}
		if _, err := file.WriteString(key + "\n"); err != nil {
			return fmt.Errorf("append to whitelist %s: %w", s.path, err)
		}
		s.entries[key] = true
	}

	return nil
}

// loadLocked reads the whitelist file into memory. Callers hold s.mu.
func (s *Store) loadLocked() {
	if s.loaded {
		return
	}
	s.entries = make(map[string]bool)
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return // missing or unreadable file == empty whitelist
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			s.entries[line] = true
		}
	}
}
