package logging

import (
	"sync"

	"github.com/cristianoliveira/questterm/internal/colors"
)

// process-wide logger used by the CLI and by code without an injected one.
var global struct {
	sync.RWMutex
	once   sync.Once
	logger Logger
}

// InitGlobal builds the process logger from the loaded configuration and
// mirrors colors output into it. Later calls are no-ops.
func InitGlobal() error {
	var err error
	global.once.Do(func() {
		var l Logger
		if l, err = Init(FromGlobalConfig()); err != nil {
			return
		}
		global.Lock()
		global.logger = l
		global.Unlock()
		colors.SetLogger(l)
		if path := CurrentLogFile(); path != "" {
			colors.Debug("Logging to file: " + path)
		}
	})
	return err
}

// GetGlobal returns the process logger, or a no-op logger before InitGlobal.
func GetGlobal() Logger {
	global.RLock()
	defer global.RUnlock()
	if global.logger == nil {
		return noopLogger{}
	}
	return global.logger
}

func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetGlobal().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetGlobal().Warn(msg, args...) }
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With derives a child of the process logger.
func With(args ...any) Logger { return GetGlobal().With(args...) }

// ShutdownGlobal closes the process log file.
func ShutdownGlobal() error {
	return GetGlobal().Shutdown()
}

// CurrentLogFile returns the active log file, or "" when logging is off.
func CurrentLogFile() string {
	if l, ok := GetGlobal().(*charmLogger); ok {
		return l.filePath()
	}
	return ""
}
