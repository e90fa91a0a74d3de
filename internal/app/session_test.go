package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/events"
	"github.com/cristianoliveira/questterm/internal/storage"
)

const introManifest = `
welcome: V2VsY29tZSB0byBpbnRybw==
executables:
  - command: connect
    helpText: Connect to a server.
    arguments:
      - name: server
        required: true
    file: connect.js
    runNamespace: intro.connect
files:
  readme.md:
    path: readme.md
    readable: true
    writeable: true
  connect.js:
    path: connect.js
    executable: true
  finish.js:
    path: finish.js
    executable: true
`

const blueberryManifest = `
welcome: Qmx1ZWJlcnJ5IHJlYWR5
executables:
  - command: finish
    helpText: Finish the level.
    file: finish.js
    runNamespace: blueberry.finish
files:
  readme.md:
    path: readme.md
    readable: true
    writeable: true
  finish.js:
    path: finish.js
    executable: true
`

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"intro/content.yaml": {Data: []byte(introManifest)},
		"intro/readme.md":    {Data: []byte("# Intro")},
		"intro/connect.js": {Data: []byte(`intro.connect = { run: function(p) {
  p.console.printLine("connecting to " + p.arguments[0]);
  p.console.fire("server.connect", p.arguments[0]);
}};`)},
		"intro/finish.js":        {Data: []byte(`intro.finish = { run: function() {} };`)},
		"blueberry/content.yaml": {Data: []byte(blueberryManifest)},
		"blueberry/readme.md":    {Data: []byte("# Blueberry")},
		"blueberry/finish.js": {Data: []byte(`blueberry.finish = { run: function(p) {
  p.levels.levelCompleted("blueberry");
}};`)},
	}
}

func newTestSession(t *testing.T, store storage.Storage, contentDir string) *Session {
	t.Helper()
	s, err := NewSession(SessionOptions{
		ContentDir: contentDir,
		Assets:     testAssets(),
		Storage:    store,
		Sleep:      func(context.Context, time.Duration) error { return nil },
	})
	require.NoError(t, err)
	return s
}

func startConsole(t *testing.T, s *Session, name string) *console.Console {
	t.Helper()
	c := s.Open(name)
	c.ConnectView()
	require.NoError(t, c.Start(context.Background(), name))
	return c
}

func TestSessionOpensBundledConsole(t *testing.T) {
	s := newTestSession(t, nil, "")
	c := startConsole(t, s, "intro")

	assert.Equal(t, "intro", s.Home())
	assert.Equal(t, []string{"Welcome to intro"}, c.Current().Lines())
	_, ok := c.GetFile("readme.md")
	assert.True(t, ok)
}

func TestSessionPrefersContentDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "intro"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro", "content.yaml"), []byte("welcome: RnJvbSBkaXNr\n"), 0o644))

	s := newTestSession(t, nil, dir)
	assert.Equal(t, []string{"From disk"}, startConsole(t, s, "intro").Current().Lines())

	// Consoles missing from the directory still come from the bundle.
	assert.Equal(t, []string{"Blueberry ready"}, startConsole(t, s, "blueberry").Current().Lines())
}

func TestSessionUnknownConsole(t *testing.T) {
	s := newTestSession(t, nil, "")
	c := s.Open("nowhere")
	c.ConnectView()
	err := c.Start(context.Background(), "nowhere")
	require.Error(t, err)
	assert.Len(t, c.Current().Lines(), 1)
}

func TestSessionConnectHandsOver(t *testing.T) {
	s := newTestSession(t, nil, "")
	c := startConsole(t, s, "intro")
	closed := 0
	c.On.Close(func() { closed++ })

	c.ExecuteCommand("connect blueberry")

	assert.Equal(t, 1, closed)
	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "blueberry", next)

	_, ok = s.Next()
	assert.False(t, ok, "hand-over is reported once")
}

func TestSessionDisconnect(t *testing.T) {
	s := newTestSession(t, nil, "")

	home := startConsole(t, s, "intro")
	home.ExecuteCommand("disconnect")
	_, ok := s.Next()
	assert.False(t, ok)
	assert.Contains(t, home.Current().Lines(), "You are not connected to any server.")

	remote := startConsole(t, s, "blueberry")
	remote.ExecuteCommand("disconnect")
	next, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, "intro", next)
}

func TestSessionLevelCompleted(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestSession(t, store, "")
	c := startConsole(t, s, "blueberry")
	var fired []any
	c.Events.On(events.LevelComplete, func(data any) { fired = append(fired, data) })

	c.ExecuteCommand("finish")

	assert.True(t, s.Progress().IsCompleted("blueberry"))
	assert.Equal(t, []any{"blueberry"}, fired)
	assert.Contains(t, c.Current().Lines(), "[green]Level **blueberry** complete![/green]")

	finished, err := store.Finished("blueberry")
	require.NoError(t, err)
	assert.True(t, finished)

	// A new session sees the saved progress.
	again := newTestSession(t, store, "")
	assert.Equal(t, []string{"blueberry"}, again.Progress().Levels())
}

func TestSessionScopesFileOverrides(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestSession(t, store, "")

	intro := startConsole(t, s, "intro")
	require.NoError(t, intro.SaveFile("readme.md", "# Edited"))
	got, _ := intro.GetFileContent("readme.md")
	assert.Equal(t, "# Edited", got)

	blueberry := startConsole(t, s, "blueberry")
	got, _ = blueberry.GetFileContent("readme.md")
	assert.Equal(t, "# Blueberry", got)

	saved, ok, err := store.Find("intro/readme.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "# Edited", saved)
}

func TestRunUseCaseFollowsHandOver(t *testing.T) {
	s := newTestSession(t, nil, "")
	var out bytes.Buffer

	err := NewRunUseCase(s, nil).Execute(context.Background(), "intro",
		[]string{"connect blueberry", "ls"}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Welcome to intro\n")
	assert.Contains(t, text, "connecting to blueberry\n")
	assert.Contains(t, text, "Blueberry ready\n")
	assert.Contains(t, text, "Total **2** files\n")
}

func TestRunUseCaseStopsWhenClosed(t *testing.T) {
	s := newTestSession(t, nil, "")
	var out bytes.Buffer

	err := NewRunUseCase(s, nil).Execute(context.Background(), "intro", []string{"exit", "ls"}, &out)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Total")
}

func TestRunUseCaseStartFailure(t *testing.T) {
	s := newTestSession(t, nil, "")
	var out bytes.Buffer

	err := NewRunUseCase(s, nil).Execute(context.Background(), "missing", []string{"ls"}, &out)
	require.Error(t, err)
	assert.NotEmpty(t, out.String())
}
