package console

import (
	"sync"

	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/events"
)

// ContextConfig describes how a context is presented.
type ContextConfig struct {
	ShowInput bool
	// Editable contexts show an edit buffer; their transcript holds one line.
	Editable       bool
	InitialContent string
	// EditorMode names the syntax of the buffer, e.g. "markdown" or "json".
	EditorMode string
	OnChange   func(content string)
}

// Context is one interaction scope: a transcript and its own commands.
type Context struct {
	ID     int
	Config ContextConfig

	mu      sync.Mutex
	lines   []string
	engine  *engine.Engine
	buffer  *Buffer
	console *Console
}

func newContext(id int, c *Console, cfg ContextConfig) *Context {
	ctx := &Context{ID: id, Config: cfg, console: c}
	ctx.engine = engine.New(engine.PrinterFunc(c.PrintLine))
	if cfg.Editable {
		ctx.buffer = NewBuffer(cfg.InitialContent, cfg.OnChange)
	}
	return ctx
}

func (x *Context) appendLine(line string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.Config.Editable {
		x.lines = x.lines[:0]
	}
	x.lines = append(x.lines, line)
}

// Lines returns a copy of the transcript.
func (x *Context) Lines() []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]string, len(x.lines))
	copy(out, x.lines)
	return out
}

// Buffer is the edit buffer, nil unless the context is editable.
func (x *Context) Buffer() *Buffer {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buffer
}

func (x *Context) release() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.buffer = nil
}

// RegisterCommand adds a command to this context only.
func (x *Context) RegisterCommand(cmd engine.Command, handler engine.Handler, completer engine.Completer) {
	x.engine.Register(cmd, handler, completer)
}

// RegisterFunc is RegisterCommand for a plain function without completer.
func (x *Context) RegisterFunc(cmd engine.Command, fn func(*engine.ExecutionContext) error) {
	x.engine.RegisterFunc(cmd, fn)
}

// Commands lists the commands of this context.
func (x *Context) Commands() []string {
	return x.engine.Commands()
}

// ExecuteCommand dispatches line. Error results are printed; successful
// ones fire command.executed.
func (x *Context) ExecuteCommand(line string) {
	res := x.engine.Execute(line)
	if res == nil {
		return
	}
	if res.State == engine.StateError {
		x.console.logger.Debug("command failed", "context", x.ID, "input", line, "message", res.Message)
		x.console.PrintLine(res.Message)
		return
	}
	x.console.Events.Fire(events.CommandExecuted, res.Command)
}

// Autocomplete returns the completions for current.
func (x *Context) Autocomplete(current string) []string {
	return x.engine.Autocomplete(current)
}
