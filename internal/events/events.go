// Package events is the named publish/subscribe bus of a console.
package events

import (
	"sync"

	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/logging"
)

// Name identifies an event.
type Name string

const (
	// CommandExecuted fires after a successful dispatch with the *engine.ParsedInput.
	CommandExecuted Name = "command.executed"
	// ConsoleClose asks the front end to close the console.
	ConsoleClose Name = "console.close"
	// ContextChanged fires after a push or pop with the new current context index.
	ContextChanged Name = "context.changed"
	// LinePrinted fires after a line is appended to the current context.
	LinePrinted Name = "line.printed"
	// ScrollTop asks the view to scroll to the first line.
	ScrollTop Name = "console.scroll_top"
	// LevelComplete fires once per level the first time it is finished.
	LevelComplete Name = "level.complete"
	// ServerConnect and ServerDisconnected are fired by content scripts and the
	// disconnect command.
	ServerConnect      Name = "server.connect"
	ServerDisconnected Name = "server.disconnected"
)

// Handler receives the data passed to Fire.
type Handler func(data any)

// Bus delivers events synchronously, in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
	logger   logging.Logger
}

// NewBus creates an empty bus. A nil logger discards debug output.
func NewBus(logger logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Bus{handlers: make(map[Name][]Handler), logger: logger}
}

// On registers handler for event. Handlers for the same event run in the
// order they were registered.
func (b *Bus) On(event Name, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire calls every handler of event with data before returning.
// Handlers may register or fire other events.
func (b *Bus) Fire(event Name, data any) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event]))
	copy(handlers, b.handlers[event])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("event has no handlers", "event", string(event))
		return
	}
	for _, h := range handlers {
		h(data)
	}
}

// Count returns the number of handlers registered for event.
func (b *Bus) Count(event Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[event])
}

// Registrar wraps a Bus with typed subscriptions for the well-known events.
type Registrar struct {
	bus *Bus
}

func NewRegistrar(bus *Bus) Registrar {
	return Registrar{bus: bus}
}

// CommandExecuted subscribes to successful dispatches.
func (r Registrar) CommandExecuted(fn func(*engine.ParsedInput)) {
	r.bus.On(CommandExecuted, func(data any) {
		if in, ok := data.(*engine.ParsedInput); ok {
			fn(in)
		}
	})
}

// Close subscribes to console close requests.
func (r Registrar) Close(fn func()) {
	r.bus.On(ConsoleClose, func(any) { fn() })
}

// ContextChanged subscribes to context switches.
func (r Registrar) ContextChanged(fn func(index int)) {
	r.bus.On(ContextChanged, func(data any) {
		if idx, ok := data.(int); ok {
			fn(idx)
		}
	})
}

// LinePrinted subscribes to transcript appends.
func (r Registrar) LinePrinted(fn func(line string)) {
	r.bus.On(LinePrinted, func(data any) {
		if line, ok := data.(string); ok {
			fn(line)
		}
	})
}

// ScrollTop subscribes to scroll requests.
func (r Registrar) ScrollTop(fn func()) {
	r.bus.On(ScrollTop, func(any) { fn() })
}
