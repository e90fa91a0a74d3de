// Package sqlite provides a SQLite-backed store for file overrides and
// level progress.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS file_overrides (
	name       TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS level_progress (
	level      TEXT PRIMARY KEY,
	finished   INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT NOT NULL
);
`

// Store implements storage.Storage using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and creates when missing) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Find(name string) (string, bool, error) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM file_overrides WHERE name = ?`, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("sqlite storage: find %s: %w", name, err)
	}
	return content, true, nil
}

func (s *Store) Save(name, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO file_overrides (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, utcNow())
	if err != nil {
		return fmt.Errorf("sqlite storage: save %s: %w", name, err)
	}
	return nil
}

func (s *Store) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM file_overrides WHERE name = ?`, name); err != nil {
		return fmt.Errorf("sqlite storage: delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) MarkFinished(level string) error {
	_, err := s.db.Exec(`
		INSERT INTO level_progress (level, finished, updated_at) VALUES (?, 1, ?)
		ON CONFLICT(level) DO UPDATE SET finished = 1`,
		level, utcNow())
	if err != nil {
		return fmt.Errorf("sqlite storage: mark %s finished: %w", level, err)
	}
	return nil
}

func (s *Store) Finished(level string) (bool, error) {
	var finished int
	err := s.db.QueryRow(`SELECT finished FROM level_progress WHERE level = ?`, level).Scan(&finished)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite storage: read %s: %w", level, err)
	}
	return finished == 1, nil
}

func (s *Store) FinishedLevels() ([]string, error) {
	rows, err := s.db.Query(`SELECT level FROM level_progress WHERE finished = 1 ORDER BY level`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list levels: %w", err)
	}
	defer rows.Close()

	var levels []string
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan level: %w", err)
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
