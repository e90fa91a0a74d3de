package sandbox

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/cristianoliveira/questterm/internal/logging"
)

// session is the runtime of one Run. Commands registered by the script keep
// it alive and re-enter it when they are dispatched.
type session struct {
	vm     *goja.Runtime
	ctx    context.Context
	guard  *watchdog
	logger logging.Logger
}

func newSession(ctx context.Context, timeout time.Duration, logger logging.Logger) *session {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
	s := &session{vm: vm, ctx: ctx, guard: newWatchdog(vm, timeout), logger: logger}
	_ = vm.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		logger.Info("script print", "text", strings.Join(parts, " "))
		return goja.Undefined()
	})
	return s
}

// guarded runs fn under the watchdog.
func (s *session) guarded(fn func() error) error {
	s.guard.enter()
	defer s.guard.leave()
	return s.toError(fn())
}

// call invokes a script function under the watchdog.
func (s *session) call(fn goja.Callable, args ...any) (goja.Value, error) {
	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = s.vm.ToValue(a)
	}
	var out goja.Value
	err := s.guarded(func() error {
		var err error
		out, err = fn(goja.Undefined(), values...)
		return err
	})
	return out, err
}

// throw raises err inside the script.
func (s *session) throw(format string, args ...any) {
	panic(s.vm.NewGoError(fmt.Errorf(format, args...)))
}

// rethrow propagates an error returned by a nested script call. Exceptions
// and interrupts are re-raised as is so the outer call sees the original.
func (s *session) rethrow(err error) {
	var interrupted *goja.InterruptedError
	if stderrors.As(err, &interrupted) {
		panic(interrupted)
	}
	var exc *goja.Exception
	if stderrors.As(err, &exc) {
		panic(exc)
	}
	panic(s.vm.NewGoError(err))
}

// watchdog interrupts the runtime when a script runs longer than timeout.
// Nested entries share one budget; pause stops the clock while the host
// waits on behalf of the script.
type watchdog struct {
	mu        sync.Mutex
	vm        *goja.Runtime
	timeout   time.Duration
	depth     int
	remaining time.Duration
	started   time.Time
	timer     *time.Timer
}

func newWatchdog(vm *goja.Runtime, timeout time.Duration) *watchdog {
	return &watchdog{vm: vm, timeout: timeout}
}

func (w *watchdog) enter() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.depth == 0 {
		w.vm.ClearInterrupt()
		w.remaining = w.timeout
		w.startLocked()
	}
	w.depth++
}

func (w *watchdog) leave() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.depth--
	if w.depth == 0 {
		w.stopLocked()
	}
}

func (w *watchdog) pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.depth > 0 {
		w.stopLocked()
	}
}

func (w *watchdog) resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.depth > 0 && w.timer == nil {
		w.startLocked()
	}
}

func (w *watchdog) startLocked() {
	w.started = time.Now()
	vm := w.vm
	w.timer = time.AfterFunc(w.remaining, func() {
		vm.Interrupt("timeout")
	})
}

func (w *watchdog) stopLocked() {
	if w.timer == nil {
		return
	}
	w.timer.Stop()
	w.timer = nil
	w.remaining -= time.Since(w.started)
	if w.remaining < 0 {
		w.remaining = 0
	}
}
