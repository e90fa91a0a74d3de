package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/cristianoliveira/questterm/internal/storage/bolt"
	"github.com/cristianoliveira/questterm/internal/storage/sqlite"
)

const (
	// BackendMemory keeps state for the lifetime of the process only.
	BackendMemory = "memory"
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"
	// BackendBolt selects a bbolt key/value file.
	BackendBolt = "bolt"

	sqliteFileName = "questterm.db"
	boltFileName   = "questterm.bolt"
)

var (
	_ Storage = (*sqlite.Store)(nil)
	_ Storage = (*bolt.Store)(nil)
)

// NewFromConfig creates a storage backend based on configuration.
func NewFromConfig() (Storage, error) {
	return NewForBackend(config.Get("storage_backend", BackendSQLite), GetStateDir())
}

// NewForBackend opens backend inside stateDir. Backends that cannot be
// opened fall back to memory with a warning.
func NewForBackend(backend, stateDir string) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendSQLite:
		s, err := sqlite.NewStore(filepath.Join(stateDir, sqliteFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return s, nil
	case BackendBolt:
		s, err := bolt.NewStore(filepath.Join(stateDir, boltFileName))
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize bolt backend, falling back to memory: %v", err))
			return NewMemoryStore(), nil
		}
		return s, nil
	default:
		colors.Warning(fmt.Sprintf("unknown storage backend '%s', falling back to memory", backend))
		return NewMemoryStore(), nil
	}
}

// GetStateDir returns the configured state directory.
func GetStateDir() string {
	return config.Get("state_dir", filepath.Join(".", ".questterm"))
}
