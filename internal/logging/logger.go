// Package logging provides structured file logging for questterm.
package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the active log file inside LogDir. lumberjack keeps
// rotated copies next to it.
const LogFileName = "questterm.log"

// Logger is the structured logging interface shared by every package.
// Arguments are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger that adds args to every entry.
	With(args ...any) Logger
	// Shutdown closes the underlying file. Children share it.
	Shutdown() error
}

// sink is the file behind a logger tree. Closing it twice is harmless.
type sink struct {
	once sync.Once
	w    io.Closer
	path string
	err  error
}

func (s *sink) close() error {
	if s == nil || s.w == nil {
		return nil
	}
	s.once.Do(func() { s.err = s.w.Close() })
	return s.err
}

// charmLogger writes JSON entries through charmbracelet/log.
type charmLogger struct {
	base   *clog.Logger
	redact *redactor
	out    *sink
}

// Init opens the rotating log file described by cfg. A disabled config
// yields a no-op logger.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	dir, err := LogDir()
	if err != nil {
		return nil, fmt.Errorf("logging: resolve directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxFiles,
		LocalTime:  true,
	}
	l := build(file, cfg)
	l.out = &sink{w: file, path: file.Filename}
	return l, nil
}

// New returns a JSON logger writing to w. Shutdown does not close w.
func New(w io.Writer, cfg Config) Logger {
	return build(w, cfg)
}

func build(w io.Writer, cfg Config) *charmLogger {
	base := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           parseLevel(cfg.Level),
		Formatter:       clog.JSONFormatter,
	})
	if cfg.Command != "" {
		base = base.With("pid", cfg.PID, "command", cfg.Command)
	}
	return &charmLogger{base: base, redact: newRedactor()}
}

func parseLevel(level string) clog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

func (l *charmLogger) Debug(msg string, args ...any) { l.base.Debug(msg, l.redact.redact(args)...) }
func (l *charmLogger) Info(msg string, args ...any)  { l.base.Info(msg, l.redact.redact(args)...) }
func (l *charmLogger) Warn(msg string, args ...any)  { l.base.Warn(msg, l.redact.redact(args)...) }
func (l *charmLogger) Error(msg string, args ...any) { l.base.Error(msg, l.redact.redact(args)...) }

func (l *charmLogger) With(args ...any) Logger {
	return &charmLogger{
		base:   l.base.With(l.redact.redact(args)...),
		redact: l.redact,
		out:    l.out,
	}
}

func (l *charmLogger) Shutdown() error { return l.out.close() }

func (l *charmLogger) filePath() string {
	if l.out == nil {
		return ""
	}
	return l.out.path
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (n noopLogger) With(...any) Logger { return n }
func (noopLogger) Shutdown() error      { return nil }

// Noop returns a logger that discards everything.
func Noop() Logger { return noopLogger{} }
