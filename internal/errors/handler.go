// Package errors holds the error surfaces of questterm: sentinel faults
// shared by the engine and its collaborators, and handlers that present
// messages on the CLI, in the TUI status line or in a console transcript.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel faults. Callers wrap them with %w and test with Is.
var (
	// ErrCommandNotFound marks dispatch of an unregistered command name.
	ErrCommandNotFound = stderrors.New("command not found")
	// ErrParse marks input that could not be tokenised.
	ErrParse = stderrors.New("could not be parsed")
	// ErrResourceMissing marks a file or script that does not exist.
	ErrResourceMissing = stderrors.New("resource missing")
	// ErrUnsupported marks a file type no reader can open.
	ErrUnsupported = stderrors.New("unsupported file type")
	// ErrPermission marks an operation a file does not allow.
	ErrPermission = stderrors.New("permission denied")
	// ErrScript marks a failure compiling or running a sandboxed script.
	ErrScript = stderrors.New("script failure")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Wrap annotates err with a sentinel so both remain matchable.
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// ErrorHandler presents a message to the user. The CLI, the TUI status
// line and a console transcript each implement it.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the colored writer used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints messages on the terminal through a ColorOutput.
type CLIHandler struct {
	out ColorOutput
}

func NewCLIHandler(out ColorOutput) *CLIHandler {
	return &CLIHandler{out: out}
}

func (h *CLIHandler) Error(msg string)   { h.out.Error(msg) }
func (h *CLIHandler) Warning(msg string) { h.out.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.out.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.out.Success(msg) }

// LinePrinter receives single transcript lines.
type LinePrinter interface {
	PrintLine(line string)
}

// TranscriptHandler renders messages as color-tagged transcript lines so
// every fault ends up as exactly one line in the current context.
type TranscriptHandler struct {
	printer LinePrinter
}

func NewTranscriptHandler(printer LinePrinter) *TranscriptHandler {
	return &TranscriptHandler{printer: printer}
}

func (h *TranscriptHandler) Error(msg string) {
	h.printer.PrintLine("[red]" + msg + "[/red]")
}

func (h *TranscriptHandler) Warning(msg string) {
	h.printer.PrintLine("[yellow]" + msg + "[/yellow]")
}

func (h *TranscriptHandler) Info(msg string) {
	h.printer.PrintLine(msg)
}

func (h *TranscriptHandler) Success(msg string) {
	h.printer.PrintLine("[green]" + msg + "[/green]")
}
