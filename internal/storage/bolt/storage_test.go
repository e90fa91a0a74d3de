package bolt

import (
	"path/filepath"
	"testing"

	"github.com/cristianoliveira/questterm/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "questterm.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestFileOverrides(t *testing.T) {
	storagetest.TestFileStore(t, newTestStore(t))
}

func TestLevelProgress(t *testing.T) {
	storagetest.TestProgressStore(t, newTestStore(t))
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questterm.bolt")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("notes.md", "kept"))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	content, ok, err := s.Find("notes.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", content)
}
