// Package progress tracks which levels of the game have been finished.
// The manager is exposed to scripts as the additional data value "levels".
package progress

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cristianoliveira/questterm/internal/logging"
)

// DataName is the additional data key the manager is registered under.
const DataName = "levels"

// Store persists finished levels.
type Store interface {
	MarkFinished(level string) error
	Finished(level string) (bool, error)
	FinishedLevels() ([]string, error)
}

// Manager caches finished levels in memory and writes through to Store.
type Manager struct {
	mu         sync.RWMutex
	store      Store
	finished   map[string]bool
	logger     logging.Logger
	onComplete func(level string)
}

// NewManager creates a manager on store. onComplete, if set, runs after a
// level is first marked finished.
func NewManager(store Store, logger logging.Logger, onComplete func(level string)) *Manager {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Manager{
		store:      store,
		finished:   map[string]bool{},
		logger:     logger,
		onComplete: onComplete,
	}
}

// Init loads the saved levels.
func (m *Manager) Init() error {
	levels, err := m.store.FinishedLevels()
	if err != nil {
		return fmt.Errorf("progress: load: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = make(map[string]bool, len(levels))
	for _, l := range levels {
		m.finished[l] = true
	}
	return nil
}

// LevelCompleted marks name finished and persists it.
func (m *Manager) LevelCompleted(name string) error {
	m.mu.Lock()
	already := m.finished[name]
	m.finished[name] = true
	m.mu.Unlock()

	if err := m.store.MarkFinished(name); err != nil {
		return fmt.Errorf("progress: save %s: %w", name, err)
	}
	if !already {
		m.logger.Info("level completed", "level", name)
		if m.onComplete != nil {
			m.onComplete(name)
		}
	}
	return nil
}

// IsCompleted reports whether name has been finished.
func (m *Manager) IsCompleted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.finished[name]
}

// Levels returns the finished levels, sorted.
func (m *Manager) Levels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.finished))
	for l := range m.finished {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
