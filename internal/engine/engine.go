// Package engine implements the command registry of a console context:
// registration, tokenising, dispatch, help text and fuzzy autocomplete.
package engine

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cristianoliveira/questterm/internal/errors"
)

// Argument describes one positional argument of a command.
type Argument struct {
	Name     string `yaml:"name" json:"name"`
	Required bool   `yaml:"required" json:"required"`
	HelpText string `yaml:"helpText" json:"helpText"`
}

// Command is the registration record of a command. It is not modified
// after registration.
type Command struct {
	Name      string     `yaml:"command" json:"command"`
	HelpText  string     `yaml:"helpText" json:"helpText"`
	Arguments []Argument `yaml:"arguments,omitempty" json:"arguments,omitempty"`
}

// ExecutionContext is handed to a handler on every dispatch.
type ExecutionContext struct {
	// Arguments are the tokens after the command name, nil when there are none.
	Arguments []string
	// Data holds the values registered with RegisterAdditionalData.
	Data map[string]any
}

// Arg returns the i-th argument or "" if it was not given.
func (c *ExecutionContext) Arg(i int) string {
	if i < 0 || i >= len(c.Arguments) {
		return ""
	}
	return c.Arguments[i]
}

// Handler executes a command.
type Handler interface {
	Execute(ctx *ExecutionContext) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx *ExecutionContext) error

func (f HandlerFunc) Execute(ctx *ExecutionContext) error { return f(ctx) }

// Completer returns the candidate values for the arguments typed so far.
type Completer interface {
	Complete(args []string) []string
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(args []string) []string

func (f CompleterFunc) Complete(args []string) []string { return f(args) }

// ParsedInput is the tokenised form of one input line.
type ParsedInput struct {
	Command      string
	Arguments    []string
	LastArgument string
}

// State is the outcome of a dispatch.
type State int

const (
	StateSuccess State = iota
	StateError
)

func (s State) String() string {
	if s == StateError {
		return "error"
	}
	return "success"
}

// Result is produced by Execute. Error results carry Message and no Command.
type Result struct {
	State   State
	Message string
	Command *ParsedInput
}

// Printer receives the lines written by the engine itself (help output).
type Printer interface {
	PrintLine(line string)
}

// PrinterFunc adapts a function to Printer.
type PrinterFunc func(line string)

func (f PrinterFunc) PrintLine(line string) { f(line) }

const helpCommand = "help"

type entry struct {
	command   Command
	handler   Handler
	completer Completer
}

// Engine is the command registry of one context.
type Engine struct {
	mu       sync.RWMutex
	commands map[string]entry
	data     map[string]any
	printer  Printer
}

// New creates an empty registry printing help to printer.
func New(printer Printer) *Engine {
	if printer == nil {
		printer = PrinterFunc(func(string) {})
	}
	return &Engine{
		commands: make(map[string]entry),
		data:     make(map[string]any),
		printer:  printer,
	}
}

// Register binds handler and an optional completer to cmd.Name.
// A later registration of the same name replaces the earlier one.
func (e *Engine) Register(cmd Command, handler Handler, completer Completer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands[cmd.Name] = entry{command: cmd, handler: handler, completer: completer}
}

// RegisterFunc is Register for plain functions.
func (e *Engine) RegisterFunc(cmd Command, fn func(*ExecutionContext) error) {
	e.Register(cmd, HandlerFunc(fn), nil)
}

// RegisterAdditionalData makes value available as Data[name] to every handler.
func (e *Engine) RegisterAdditionalData(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data[name] = value
}

// Commands returns the registered names in lexical order.
func (e *Engine) Commands() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sortedNames()
}

func (e *Engine) sortedNames() []string {
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the registration record of name.
func (e *Engine) Lookup(name string) (Command, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ent, ok := e.commands[name]
	return ent.command, ok
}

// Parse tokenises input on runs of whitespace. It returns nil when input
// holds no tokens.
func Parse(input string) *ParsedInput {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	parsed := &ParsedInput{Command: parts[0]}
	if len(parts) > 1 {
		parsed.Arguments = parts[1:]
		parsed.LastArgument = parts[len(parts)-1]
	}
	return parsed
}

// Execute parses and dispatches input. It returns nil for blank input.
// Handler errors and panics are returned as Error results.
func (e *Engine) Execute(input string) *Result {
	if strings.TrimSpace(input) == "" {
		return nil
	}

	parsed := Parse(input)
	if parsed == nil {
		return &Result{
			State:   StateError,
			Message: fmt.Sprintf("Command **%s** %s", input, errors.ErrParse),
		}
	}

	if parsed.Command == helpCommand {
		e.showHelp(parsed)
		return &Result{State: StateSuccess, Command: parsed}
	}

	e.mu.RLock()
	ent, ok := e.commands[parsed.Command]
	data := make(map[string]any, len(e.data))
	for k, v := range e.data {
		data[k] = v
	}
	e.mu.RUnlock()

	if !ok {
		return &Result{
			State:   StateError,
			Message: fmt.Sprintf("`%s`: %s", input, errors.ErrCommandNotFound),
		}
	}

	if err := invoke(ent.handler, &ExecutionContext{Arguments: parsed.Arguments, Data: data}); err != nil {
		return &Result{State: StateError, Message: err.Error()}
	}
	return &Result{State: StateSuccess, Command: parsed}
}

// invoke runs the handler, turning a panic into an error.
func invoke(h Handler, ctx *ExecutionContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	if h == nil {
		return fmt.Errorf("command has no handler")
	}
	return h.Execute(ctx)
}
