// Package storage persists the state a console accumulates between runs:
// saved file edits (overrides of bundled content) and finished levels.
package storage

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: closed")

// FileStore keeps edited file contents keyed by file base name.
type FileStore interface {
	// Find returns the override for name and whether one exists.
	Find(name string) (string, bool, error)
	// Save stores content as the override for name.
	Save(name, content string) error
	// Delete removes the override for name. Deleting a missing override is not an error.
	Delete(name string) error
}

// ProgressStore records which levels have been finished.
type ProgressStore interface {
	MarkFinished(level string) error
	Finished(level string) (bool, error)
	FinishedLevels() ([]string, error)
}

// Storage is a backend serving both concerns.
type Storage interface {
	FileStore
	ProgressStore
	Close() error
}

// MemoryStore is a process-local Storage. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	files    map[string]string
	finished map[string]time.Time
	closed   bool
}

var _ Storage = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		files:    make(map[string]string),
		finished: make(map[string]time.Time),
	}
}

func (m *MemoryStore) Find(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	content, ok := m.files[name]
	return content, ok, nil
}

func (m *MemoryStore) Save(name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.files[name] = content
	return nil
}

func (m *MemoryStore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.files, name)
	return nil
}

func (m *MemoryStore) MarkFinished(level string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, ok := m.finished[level]; !ok {
		m.finished[level] = time.Now()
	}
	return nil
}

func (m *MemoryStore) Finished(level string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.finished[level]
	return ok, nil
}

func (m *MemoryStore) FinishedLevels() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	levels := make([]string, 0, len(m.finished))
	for level := range m.finished {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
