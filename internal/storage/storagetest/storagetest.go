// Package storagetest keeps test suites shared by every storage backend.
package storagetest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileStore is the subset of storage.FileStore exercised by TestFileStore.
type FileStore interface {
	Find(name string) (string, bool, error)
	Save(name, content string) error
	Delete(name string) error
}

// ProgressStore is the subset of storage.ProgressStore exercised by TestProgressStore.
type ProgressStore interface {
	MarkFinished(level string) error
	Finished(level string) (bool, error)
	FinishedLevels() ([]string, error)
}

// TestFileStore checks save, overwrite, find and delete semantics.
func TestFileStore(t *testing.T, s FileStore) {
	t.Helper()

	_, ok, err := s.Find("notes.md")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save("notes.md", "first"))
	require.NoError(t, s.Save("notes.md", "second"))
	require.NoError(t, s.Save("other.md", "x"))

	content, ok, err := s.Find("notes.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", content)

	require.NoError(t, s.Delete("notes.md"))
	require.NoError(t, s.Delete("never-saved.md"))

	_, ok, err = s.Find("notes.md")
	require.NoError(t, err)
	assert.False(t, ok)

	content, ok, err = s.Find("other.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", content)
}

// TestProgressStore checks that finished levels are recorded once and listed sorted.
func TestProgressStore(t *testing.T, s ProgressStore) {
	t.Helper()

	done, err := s.Finished("intro")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.MarkFinished("intro"))
	require.NoError(t, s.MarkFinished("blueberry"))
	require.NoError(t, s.MarkFinished("intro"))

	done, err = s.Finished("intro")
	require.NoError(t, err)
	assert.True(t, done)

	levels, err := s.FinishedLevels()
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"blueberry", "intro"}, levels); diff != "" {
		t.Errorf("FinishedLevels mismatch (-want +got):\n%s", diff)
	}
}
