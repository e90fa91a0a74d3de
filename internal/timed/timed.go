// Package timed runs an ordered list of display and computation steps with
// a fixed delay between them and cooperative cancellation.
package timed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/questterm/internal/logging"
)

// ErrCanceled is returned when a step cancels the run or the context ends.
// A canceled run did not complete; it is not a fault.
var ErrCanceled = errors.New("timed run canceled")

// Step is either a line to display or a function of the shared Event.
type Step struct {
	text string
	fn   func(*Event) string
}

// Text is a display-only step.
func Text(s string) Step { return Step{text: s} }

// Func is a computation step. A non-empty return value is displayed.
func Func(fn func(*Event) string) Step { return Step{fn: fn} }

// Event is shared by every step of one run.
type Event struct {
	mu       sync.RWMutex
	canceled bool
	props    map[string]any
}

func newEvent() *Event {
	return &Event{props: make(map[string]any)}
}

// Cancel stops the run after the current step. It cannot be undone.
func (e *Event) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.canceled = true
}

// Canceled reports whether Cancel was called.
func (e *Event) Canceled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.canceled
}

// Set stores a named value for later steps.
func (e *Event) Set(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.props[name] = value
}

// Get returns a value stored by an earlier step.
func (e *Event) Get(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.props[name]
	return v, ok
}

// Properties returns a copy of every stored value.
func (e *Event) Properties() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.props))
	for k, v := range e.props {
		out[k] = v
	}
	return out
}

// Runner executes steps one after the other.
type Runner struct {
	// Display shows a line, usually Console.PrintLine.
	Display func(line string)
	// Sleep waits between steps; it must return early when ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger receives run lifecycle messages. Nil discards them.
	Logger logging.Logger
}

// NewRunner returns a Runner that sleeps on a real timer.
func NewRunner(display func(string)) *Runner {
	return &Runner{Display: display, Sleep: Sleep}
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes steps in order and waits delay after each one. It returns the
// shared Event on completion, or the Event and ErrCanceled when a step
// cancels it or ctx ends first. Steps never overlap.
func (r *Runner) Run(ctx context.Context, steps []Step, delay time.Duration) (*Event, error) {
	logger := r.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	display := r.Display
	if display == nil {
		display = func(string) {}
	}

	ev := newEvent()
	logger.Debug("timed run started", "steps", len(steps), "delay", delay.String())

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			ev.Cancel()
			return ev, fmt.Errorf("%w: %w", ErrCanceled, err)
		}

		if step.fn == nil {
			display(step.text)
		} else {
			if msg := step.fn(ev); msg != "" {
				display(msg)
			}
			if ev.Canceled() {
				logger.Debug("timed run canceled by step", "step", i)
				return ev, ErrCanceled
			}
		}

		if err := sleep(ctx, delay); err != nil {
			ev.Cancel()
			return ev, fmt.Errorf("%w: %w", ErrCanceled, err)
		}
	}

	logger.Debug("timed run completed", "steps", len(steps))
	return ev, nil
}

// Outcome is the result of an asynchronous run.
type Outcome struct {
	Event *Event
	Err   error
}

// RunAsync runs in a new goroutine and delivers the outcome on the returned
// channel, which is closed afterwards.
func (r *Runner) RunAsync(ctx context.Context, steps []Step, delay time.Duration) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		ev, err := r.Run(ctx, steps, delay)
		out <- Outcome{Event: ev, Err: err}
	}()
	return out
}
