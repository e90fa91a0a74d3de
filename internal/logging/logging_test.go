package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("HOME", tmp)
	config.Load()
	return tmp
}

func decodeLines(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestConfigFromGlobal(t *testing.T) {
	setupTest(t)
	t.Setenv("QUESTTERM_LOGGING_ENABLED", "true")
	t.Setenv("QUESTTERM_LOGGING_LEVEL", "debug")
	t.Setenv("QUESTTERM_LOGGING_MAX_FILES", "5")
	t.Setenv("QUESTTERM_LOGGING_MAX_SIZE_MB", "2")
	config.Load()

	cfg := FromGlobalConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "debug", cfg.Level)
	require.Equal(t, 5, cfg.MaxFiles)
	require.Equal(t, 2, cfg.MaxSizeMB)
	require.Equal(t, filepath.Base(os.Args[0]), cfg.Command)
	require.Equal(t, os.Getpid(), cfg.PID)
}

func TestLogLevelMapping(t *testing.T) {
	setupTest(t)

	t.Setenv("QUESTTERM_DEBUG", "true")
	t.Setenv("QUESTTERM_LOGGING_LEVEL", "info")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)

	t.Setenv("QUESTTERM_QUIET", "true")
	config.Load()
	require.Equal(t, "debug", FromGlobalConfig().Level)

	t.Setenv("QUESTTERM_DEBUG", "false")
	config.Load()
	require.Equal(t, "error", FromGlobalConfig().Level)

	t.Setenv("QUESTTERM_QUIET", "false")
	t.Setenv("QUESTTERM_LOGGING_LEVEL", "warn")
	config.Load()
	require.Equal(t, "warn", FromGlobalConfig().Level)
}

func TestLogDir(t *testing.T) {
	tmp := setupTest(t)

	dir, err := LogDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "questterm", "logs"), dir)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]clog.Level{
		"debug":   clog.DebugLevel,
		"INFO":    clog.InfoLevel,
		"warning": clog.WarnLevel,
		"error":   clog.ErrorLevel,
		"bogus":   clog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestInitDisabledReturnsNoop(t *testing.T) {
	l, err := Init(Config{Enabled: false})
	require.NoError(t, err)
	_, ok := l.(noopLogger)
	require.True(t, ok)
	require.NoError(t, l.Shutdown())
}

func TestInitWritesJSONToRotatingFile(t *testing.T) {
	tmp := setupTest(t)
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Level = "debug"

	l, err := Init(cfg)
	require.NoError(t, err)
	l.Info("context pushed", "depth", 2)
	require.NoError(t, l.Shutdown())

	data, err := os.ReadFile(filepath.Join(tmp, "questterm", "logs", LogFileName))
	require.NoError(t, err)
	entries := decodeLines(t, string(data))
	require.Len(t, entries, 1)
	assert.Equal(t, "context pushed", entries[0]["msg"])
	assert.Equal(t, float64(2), entries[0]["depth"])
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "warn"})

	l.Info("hidden")
	l.Warn("shown")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestWithAddsFieldsAndRedacts(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "debug"}).With("console", "intro")

	l.Debug("script loaded", "api_token", "abc123", "file", "connect.ts")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 1)
	assert.Equal(t, "intro", entries[0]["console"])
	assert.Equal(t, "[REDACTED]", entries[0]["api_token"])
	assert.Equal(t, "connect.ts", entries[0]["file"])
}

func TestRedactorSegments(t *testing.T) {
	r := newRedactor()
	assert.True(t, r.isSensitive("DB_PASSWORD"))
	assert.True(t, r.isSensitive("auth-header"))
	assert.False(t, r.isSensitive("keyboard"))
	assert.False(t, r.isSensitive("name"))

	pairs := []any{"secret", "s", "name", "n", 42}
	out := r.redact(pairs)
	assert.Equal(t, []any{"secret", "[REDACTED]", "name", "n", 42}, out)
	assert.Equal(t, "s", pairs[1])
}

func TestGlobalHelpersWithoutInit(t *testing.T) {
	assert.NotNil(t, GetGlobal())
	Debug("noop")
	assert.NotNil(t, With("a", 1))
}
