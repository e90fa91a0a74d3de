// Package bolt provides a bbolt-backed store for file overrides and level
// progress.
package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketFileOverrides = "file_overrides"
	bucketLevelProgress = "level_progress"
)

var initDB = map[string]func(*bolt.Tx) error{
	"initialize file overrides bucket": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketFileOverrides))
		return err
	},
	"initialize level progress bucket": func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketLevelProgress))
		return err
	},
}

// Store implements storage.Storage on a single bbolt file.
type Store struct {
	db *bolt.DB
}

// NewStore opens the database at dbPath and creates missing buckets.
func NewStore(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("bolt storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("bolt storage: create db directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt storage: open db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt storage: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Find(name string) (string, bool, error) {
	var (
		content string
		found   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucketFileOverrides)).Get([]byte(name)); v != nil {
			content, found = string(v), true
		}
		return nil
	})
	return content, found, err
}

func (s *Store) Save(name, content string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFileOverrides)).Put([]byte(name), []byte(content))
	})
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFileOverrides)).Delete([]byte(name))
	})
}

func (s *Store) MarkFinished(level string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketLevelProgress))
		if b.Get([]byte(level)) != nil {
			return nil
		}
		return b.Put([]byte(level), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

func (s *Store) Finished(level string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(bucketLevelProgress)).Get([]byte(level)) != nil
		return nil
	})
	return found, err
}

func (s *Store) FinishedLevels() ([]string, error) {
	var levels []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketLevelProgress)).ForEach(func(k, _ []byte) error {
			levels = append(levels, string(k))
			return nil
		})
	})
	sort.Strings(levels)
	return levels, err
}
