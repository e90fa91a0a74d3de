// Package console owns the stack of interaction contexts, the event bus and
// the capabilities commands and scripts act through.
package console

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/events"
	"github.com/cristianoliveira/questterm/internal/filesystem"
	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/sandbox"
	"github.com/cristianoliveira/questterm/internal/storage"
	"github.com/cristianoliveira/questterm/internal/timed"
)

// Loader fetches the content bundle of a console.
type Loader func(ctx context.Context, name string) (*content.Content, error)

// Installer registers commands once the root context exists.
type Installer interface {
	// Defaults registers the built-in commands.
	Defaults(c *Console, root *Context)
	// Executables registers the script commands of the loaded content.
	Executables(c *Console, root *Context, exes []content.Executable)
}

// Console is a stack of contexts. The bottom context is created by Start and
// is never popped.
type Console struct {
	// Events is the console bus; On offers typed subscriptions to it.
	Events *events.Bus
	On     events.Registrar

	mu    sync.RWMutex
	arena []*Context
	stack []int
	data  map[string]any

	fs        filesystem.FileSystem
	scripts   *sandbox.Engine
	runner    *timed.Runner
	logger    logging.Logger
	load      Loader
	installer Installer

	ctx    context.Context
	cancel context.CancelFunc

	viewOnce  sync.Once
	viewReady chan struct{}

	startOnce sync.Once
	startErr  error
}

// Option configures a Console.
type Option func(*Console)

func WithLogger(l logging.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFileSystem replaces the in-memory file system.
func WithFileSystem(fs filesystem.FileSystem) Option {
	return func(c *Console) { c.fs = fs }
}

// WithLoader sets how Start fetches content.
func WithLoader(l Loader) Option {
	return func(c *Console) { c.load = l }
}

// WithSandbox sets the engine executables run in.
func WithSandbox(e *sandbox.Engine) Option {
	return func(c *Console) { c.scripts = e }
}

// WithInstaller sets the commands registered by Start.
func WithInstaller(i Installer) Option {
	return func(c *Console) { c.installer = i }
}

// WithSleep replaces the wait used between timed steps.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Console) { c.runner.Sleep = sleep }
}

// New creates a console with no contexts. Call Start to load content.
func New(opts ...Option) *Console {
	logger := logging.Noop()
	bus := events.NewBus(logger)
	c := &Console{
		Events:    bus,
		On:        events.NewRegistrar(bus),
		data:      make(map[string]any),
		logger:    logger,
		viewReady: make(chan struct{}),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.runner = timed.NewRunner(c.PrintLine)
	c.fs = filesystem.NewOverlay(storage.NewMemoryStore(), logger)
	c.scripts = sandbox.New()
	c.load = func(context.Context, string) (*content.Content, error) {
		return &content.Content{Files: map[string]content.File{}}, nil
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.logger != logger {
		c.Events = events.NewBus(c.logger)
		c.On = events.NewRegistrar(c.Events)
	}
	c.runner.Logger = c.logger
	return c
}

// PushContext puts a new context on top of the stack and makes it current.
func (c *Console) PushContext(cfg ContextConfig) *Context {
	c.mu.Lock()
	x := newContext(len(c.arena), c, cfg)
	for name, value := range c.data {
		x.engine.RegisterAdditionalData(name, value)
	}
	c.arena = append(c.arena, x)
	c.stack = append(c.stack, x.ID)
	index := len(c.stack) - 1
	c.mu.Unlock()

	c.logger.Debug("context pushed", "id", x.ID, "depth", index+1, "editable", cfg.Editable)
	c.Events.Fire(events.ContextChanged, index)
	return x
}

// StartContext is PushContext.
func (c *Console) StartContext(cfg ContextConfig) *Context {
	return c.PushContext(cfg)
}

// PopContext removes the current context. The bottom context stays; popping
// it is a no-op that returns false.
func (c *Console) PopContext() bool {
	c.mu.Lock()
	if len(c.stack) <= 1 {
		c.mu.Unlock()
		return false
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.arena[top].release()
	c.arena[top] = nil
	for len(c.arena) > 0 && c.arena[len(c.arena)-1] == nil {
		c.arena = c.arena[:len(c.arena)-1]
	}
	index := len(c.stack) - 1
	c.mu.Unlock()

	c.logger.Debug("context popped", "id", top, "depth", index+1)
	c.Events.Fire(events.ContextChanged, index)
	return true
}

// CloseCurrentContext is PopContext.
func (c *Console) CloseCurrentContext() {
	c.PopContext()
}

// Current returns the top context, or nil before Start.
func (c *Console) Current() *Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.stack) == 0 {
		return nil
	}
	return c.arena[c.stack[len(c.stack)-1]]
}

// Depth is the number of contexts on the stack.
func (c *Console) Depth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stack)
}

// PrintLine appends line to the current context.
func (c *Console) PrintLine(line string) {
	x := c.Current()
	if x == nil {
		c.logger.Warn("line printed without context", "line", line)
		return
	}
	x.appendLine(line)
	c.Events.Fire(events.LinePrinted, line)
}

// ExecuteCommand dispatches line in the current context.
func (c *Console) ExecuteCommand(line string) {
	x := c.Current()
	if x == nil {
		c.logger.Warn("command executed without context", "input", line)
		return
	}
	c.logger.Debug("executing command", "context", x.ID, "input", line)
	x.ExecuteCommand(line)
}

// Autocomplete completes current against the current context.
func (c *Console) Autocomplete(current string) []string {
	x := c.Current()
	if x == nil {
		return []string{}
	}
	return x.Autocomplete(current)
}

// RegisterAdditionalData exposes value to the handlers of every context,
// including contexts pushed later.
func (c *Console) RegisterAdditionalData(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[name] = value
	for _, x := range c.arena {
		if x != nil {
			x.engine.RegisterAdditionalData(name, value)
		}
	}
}

// GetFile looks up a file by base name.
func (c *Console) GetFile(name string) (*content.File, bool) {
	return c.fs.GetFile(name)
}

// GetFiles lists every file sorted by base name.
func (c *Console) GetFiles() []content.File {
	return c.fs.ListFiles()
}

// GetFileContent returns the content of name with saved edits applied.
func (c *Console) GetFileContent(name string) (string, bool) {
	f, ok := c.fs.GetFile(name)
	if !ok {
		return "", false
	}
	return f.Content, true
}

// SaveFile stores new content for name.
func (c *Console) SaveFile(name, data string) error {
	return c.fs.SaveFile(name, data)
}

// PrintFile prints the content of name, or a not found line.
func (c *Console) PrintFile(name string) {
	if text, ok := c.GetFileContent(name); ok {
		c.PrintLine(text)
		return
	}
	c.PrintLine(fmt.Sprintf("File %s not found!", name))
}

// ScrollTop asks the view to show the first line.
func (c *Console) ScrollTop() {
	c.Events.Fire(events.ScrollTop, nil)
}

// Close asks the front end to close the console.
func (c *Console) Close() {
	c.Events.Fire(events.ConsoleClose, nil)
}

// Fire sends a free-form event on the bus.
func (c *Console) Fire(event string, data any) {
	c.Events.Fire(events.Name(event), data)
}

// Timed returns the runner that prints into this console.
func (c *Console) Timed() *timed.Runner {
	return c.runner
}

// Context is cancelled by Shutdown. Timed runs and scripts stop with it.
func (c *Console) Context() context.Context {
	return c.ctx
}

// Shutdown cancels pending timed runs. The console is unusable afterwards.
func (c *Console) Shutdown() {
	c.cancel()
}

// Logger returns the console logger.
func (c *Console) Logger() logging.Logger {
	return c.logger
}
