package logging

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/questterm/internal/config"
)

// Config selects where and how much is logged.
type Config struct {
	Enabled   bool
	Level     string
	MaxFiles  int // rotated files kept by lumberjack
	MaxSizeMB int // size that triggers rotation
	Command   string
	PID       int
}

// DefaultConfig has logging off, at info level, tagged with this process.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		MaxFiles:  10,
		MaxSizeMB: 5,
		Command:   filepath.Base(os.Args[0]),
		PID:       os.Getpid(),
	}
}

// FromGlobalConfig reads the logging_* keys. debug raises the level to
// debug and wins over quiet, which lowers it to errors.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", cfg.Enabled)
	cfg.Level = config.Get("logging_level", cfg.Level)
	cfg.MaxFiles = config.GetInt("logging_max_files", cfg.MaxFiles)
	cfg.MaxSizeMB = config.GetInt("logging_max_size_mb", cfg.MaxSizeMB)
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	} else if config.GetBool("quiet", false) {
		cfg.Level = "error"
	}
	return cfg
}

// LogDir is <state_dir>/logs when that is writable, otherwise a directory
// under the system temp dir.
func LogDir() (string, error) {
	if state := config.Get("state_dir", ""); state != "" {
		dir := filepath.Join(state, "logs")
		if writable(dir) {
			return dir, nil
		}
	}
	dir := filepath.Join(os.TempDir(), "questterm", "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
