// Package colors prints status messages for the CLI. ANSI colors are used
// only when the destination is a terminal, and every message is mirrored
// to the structured logger when one is set.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger receives a copy of every printed message.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// kind describes how one message type is printed and logged.
type kind struct {
	name   string
	color  string
	label  string // colored prefix; empty colors the whole message
	stderr bool
	log    func(l Logger, msg string)
}

var (
	kindError   = kind{"error", Red, "Error:", true, func(l Logger, m string) { l.Error(m) }}
	kindWarning = kind{"warning", Yellow, "Warning:", true, func(l Logger, m string) { l.Warn(m) }}
	kindSuccess = kind{"success", Green, checkmark, false, func(l Logger, m string) { l.Info(m, "type", "success") }}
	kindInfo    = kind{"info", Blue, "", false, func(l Logger, m string) { l.Info(m) }}
	kindDebug   = kind{"debug", Cyan, "Debug:", true, func(l Logger, m string) { l.Debug(m) }}
)

var state = struct {
	sync.RWMutex
	debug  bool
	force  bool
	logger Logger
	stdout io.Writer
	stderr io.Writer
}{stdout: os.Stdout, stderr: os.Stderr}

func init() {
	state.debug = truthy(os.Getenv("QUESTTERM_DEBUG"))
	state.force = truthy(os.Getenv("QUESTTERM_FORCE_COLOR"))
}

func truthy(v string) bool { return v == "true" || v == "1" }

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	state.Lock()
	state.debug = enabled
	state.Unlock()
}

// SetForceColor forces ANSI sequences even when the output is not a terminal.
func SetForceColor(enabled bool) {
	state.Lock()
	state.force = enabled
	state.Unlock()
}

// SetLogger mirrors messages to l. Nil stops mirroring.
func SetLogger(l Logger) {
	state.Lock()
	state.logger = l
	state.Unlock()
}

// SetOutput redirects stdout and stderr output. Nil restores the process streams.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	state.Lock()
	state.stdout, state.stderr = out, errOut
	state.Unlock()
}

func emit(k kind, msgs []string) {
	msg := strings.Join(msgs, " ")

	state.RLock()
	w, force, l := state.stdout, state.force, state.logger
	if k.stderr {
		w = state.stderr
	}
	state.RUnlock()

	if l != nil {
		k.log(l, msg)
	}

	var line string
	switch {
	case k.label == "":
		line = paint(w, force, k.color, msg)
	default:
		line = paint(w, force, k.color, k.label) + " " + msg
	}
	if _, err := fmt.Fprintln(w, line); err != nil && w != os.Stderr {
		// last resort; never loops back through emit
		fmt.Fprintf(os.Stderr, "colors: failed to print %s message: %v\n", k.name, err)
	}
}

func paint(w io.Writer, force bool, color, text string) string {
	if !force && !isTerminal(w) {
		return text
	}
	return color + text + Reset
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Error prints to stderr.
func Error(msgs ...string) { emit(kindError, msgs) }

// Warning prints to stderr.
func Warning(msgs ...string) { emit(kindWarning, msgs) }

// Success prints to stdout with a checkmark.
func Success(msgs ...string) { emit(kindSuccess, msgs) }

// Info prints to stdout.
func Info(msgs ...string) { emit(kindInfo, msgs) }

// Debug prints to stderr when debug output is enabled.
func Debug(msgs ...string) {
	state.RLock()
	on := state.debug
	state.RUnlock()
	if on {
		emit(kindDebug, msgs)
	}
}
