package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv(EnvPrefix+"CONFIG_PATH", "")
	return dir
}

func TestLoadAndGet(t *testing.T) {
	isolate(t)
	Load()

	assert.Equal(t, "default", Get("missing", "default"))
	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.Equal(t, 400, GetInt("step_delay_ms", 0))
	assert.False(t, GetBool("logging_enabled", true))
}

func TestLoadDerivesDirectoriesFromXDG(t *testing.T) {
	dir := isolate(t)
	Load()

	assert.Equal(t, filepath.Join(dir, "config", "questterm"), Get("config_dir", ""))
	assert.Equal(t, filepath.Join(dir, "state", "questterm"), Get("state_dir", ""))
	assert.Equal(t, filepath.Join(dir, "config", "questterm", "consoles"), Get("content_dir", ""))
}

func TestLoadCreatesSampleConfig(t *testing.T) {
	dir := isolate(t)
	Load()

	data, err := os.ReadFile(filepath.Join(dir, "config", "questterm", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# questterm configuration")
	assert.Contains(t, string(data), "storage_backend")
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("storage_backend = \"bolt\"\nstep_delay_ms = 10\nconsole_name = \"blueberry\"\n"), 0o644))
	t.Setenv(EnvPrefix+"CONFIG_PATH", path)
	t.Setenv(EnvPrefix+"STORAGE_BACKEND", "memory")

	Load()

	assert.Equal(t, "memory", Get("storage_backend", ""))
	assert.Equal(t, 10, GetInt("step_delay_ms", 0))
	assert.Equal(t, "blueberry", Get("console_name", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		value    string
		key      string
		expected string
	}{
		{name: "unknown backend", env: "STORAGE_BACKEND", value: "postgres", key: "storage_backend", expected: "sqlite"},
		{name: "negative delay", env: "STEP_DELAY_MS", value: "-5", key: "step_delay_ms", expected: "400"},
		{name: "zero delay allowed", env: "STEP_DELAY_MS", value: "0", key: "step_delay_ms", expected: "0"},
		{name: "bad bool", env: "LOGGING_ENABLED", value: "maybe", key: "logging_enabled", expected: "false"},
		{name: "bool normalized", env: "DEBUG", value: "yes", key: "debug", expected: "true"},
		{name: "timeout not positive", env: "SCRIPT_TIMEOUT_MS", value: "0", key: "script_timeout_ms", expected: "2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(EnvPrefix+tt.env, tt.value)
			Load()
			assert.Equal(t, tt.expected, Get(tt.key, ""))
		})
	}
}

func TestSetOverridesValue(t *testing.T) {
	isolate(t)
	Load()

	Set("content_dir", "/tmp/elsewhere")
	assert.Equal(t, "/tmp/elsewhere", Get("content_dir", ""))
}

func TestCoerceConfigValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		out  string
		conv bool
	}{
		{in: "x", out: "x", conv: true},
		{in: int64(3), out: "3", conv: true},
		{in: 1.5, out: "1.5", conv: true},
		{in: true, out: "true", conv: true},
		{in: []string{"a"}, out: "", conv: false},
	}
	for _, tt := range tests {
		got, ok := coerceConfigValue(tt.in)
		assert.Equal(t, tt.conv, ok)
		assert.Equal(t, tt.out, got)
	}
}
