package progress

import (
	"errors"
	"testing"

	"github.com/cristianoliveira/questterm/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkFinished(level string) error { return m.Called(level).Error(0) }

func (m *mockStore) Finished(level string) (bool, error) {
	args := m.Called(level)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) FinishedLevels() ([]string, error) {
	args := m.Called()
	levels, _ := args.Get(0).([]string)
	return levels, args.Error(1)
}

func TestLevelCompletedPersistsAndNotifiesOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	var notified []string
	m := NewManager(store, nil, func(level string) { notified = append(notified, level) })
	require.NoError(t, m.Init())

	assert.False(t, m.IsCompleted("intro"))
	require.NoError(t, m.LevelCompleted("intro"))
	require.NoError(t, m.LevelCompleted("intro"))

	assert.True(t, m.IsCompleted("intro"))
	assert.Equal(t, []string{"intro"}, notified)
	done, err := store.Finished("intro")
	require.NoError(t, err)
	assert.True(t, done)
}

func TestInitLoadsSavedLevels(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.MarkFinished("blueberry"))
	require.NoError(t, store.MarkFinished("intro"))

	m := NewManager(store, nil, nil)
	require.NoError(t, m.Init())

	assert.Equal(t, []string{"blueberry", "intro"}, m.Levels())
}

func TestStoreErrors(t *testing.T) {
	store := &mockStore{}
	store.On("FinishedLevels").Return(nil, errors.New("locked"))
	store.On("MarkFinished", "intro").Return(errors.New("read only"))

	m := NewManager(store, nil, nil)
	assert.ErrorContains(t, m.Init(), "locked")
	assert.ErrorContains(t, m.LevelCompleted("intro"), "read only")
	store.AssertExpectations(t)
}
