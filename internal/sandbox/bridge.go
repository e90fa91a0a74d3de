package sandbox

import (
	"context"
	"time"

	"github.com/dop251/goja"

	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/timed"
)

// ScriptConsole is the host side of the console object scripts receive.
type ScriptConsole interface {
	PrintLine(line string)
	PrintFile(name string)
	GetFile(name string) (*content.File, bool)
	GetFiles() []content.File
	ExecuteCommand(line string)
	ScrollTop()
	Close()
	Fire(event string, data any)
	StartContext(showInput bool) ScriptContext
	CloseCurrentContext()
	// Timed returns the runner used by runTimed.
	Timed() *timed.Runner
	// Context bounds waits started by the script.
	Context() context.Context
}

// ScriptContext is the host side of the object returned by startContext.
type ScriptContext interface {
	Register(cmd engine.Command, handler engine.Handler, completer engine.Completer)
	ExecuteCommand(line string)
	Autocomplete(current string) []string
}

func fileValue(f content.File) map[string]any {
	return map[string]any{
		"name":       f.Name,
		"ext":        f.Ext,
		"base":       f.Base,
		"content":    f.Content,
		"readable":   f.Readable,
		"writeable":  f.Writeable,
		"executable": f.Executable,
	}
}

func newConsoleObject(s *session, c ScriptConsole) *goja.Object {
	vm := s.vm
	obj := vm.NewObject()

	_ = obj.Set("printLine", func(call goja.FunctionCall) goja.Value {
		c.PrintLine(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("printFile", func(call goja.FunctionCall) goja.Value {
		c.PrintFile(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("getFile", func(call goja.FunctionCall) goja.Value {
		f, ok := c.GetFile(call.Argument(0).String())
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(fileValue(*f))
	})
	_ = obj.Set("getFiles", func(goja.FunctionCall) goja.Value {
		files := c.GetFiles()
		out := make([]any, len(files))
		for i, f := range files {
			out[i] = fileValue(f)
		}
		return vm.NewArray(out...)
	})
	_ = obj.Set("executeCommand", func(call goja.FunctionCall) goja.Value {
		c.ExecuteCommand(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("scrollTop", func(goja.FunctionCall) goja.Value {
		c.ScrollTop()
		return goja.Undefined()
	})
	_ = obj.Set("close", func(goja.FunctionCall) goja.Value {
		c.Close()
		return goja.Undefined()
	})
	_ = obj.Set("fire", func(call goja.FunctionCall) goja.Value {
		var data any
		if arg := call.Argument(1); !goja.IsUndefined(arg) {
			data = arg.Export()
		}
		c.Fire(call.Argument(0).String(), data)
		return goja.Undefined()
	})
	_ = obj.Set("startContext", func(call goja.FunctionCall) goja.Value {
		showInput := true
		if cfg, ok := call.Argument(0).(*goja.Object); ok {
			if v := cfg.Get("showInput"); v != nil && !goja.IsUndefined(v) {
				showInput = v.ToBoolean()
			}
		}
		return newContextObject(s, c.StartContext(showInput))
	})
	_ = obj.Set("closeCurrentContext", func(goja.FunctionCall) goja.Value {
		c.CloseCurrentContext()
		return goja.Undefined()
	})
	_ = obj.Set("runTimed", func(call goja.FunctionCall) goja.Value {
		return runTimed(s, c, call)
	})
	return obj
}

func newContextObject(s *session, sc ScriptContext) *goja.Object {
	obj := s.vm.NewObject()
	_ = obj.Set("registerCommand", func(call goja.FunctionCall) goja.Value {
		cmd := parseCommand(s, call.Argument(0))
		handler := scriptHandler(s, call.Argument(1))
		if handler == nil {
			s.throw("registerCommand %s: handler must be a function or an object with executeCommand", cmd.Name)
		}
		sc.Register(cmd, handler, scriptCompleter(s, call.Argument(2)))
		return goja.Undefined()
	})
	_ = obj.Set("executeCommand", func(call goja.FunctionCall) goja.Value {
		sc.ExecuteCommand(call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("autocomplete", func(call goja.FunctionCall) goja.Value {
		values := sc.Autocomplete(call.Argument(0).String())
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = v
		}
		return s.vm.NewArray(out...)
	})
	return obj
}

func parseCommand(s *session, v goja.Value) engine.Command {
	obj, ok := v.(*goja.Object)
	if !ok {
		s.throw("registerCommand: command must be an object")
	}
	cmd := engine.Command{
		Name:     stringProp(obj, "command"),
		HelpText: stringProp(obj, "helpText"),
	}
	if cmd.Name == "" {
		s.throw("registerCommand: command name is required")
	}
	if args, ok := obj.Get("arguments").(*goja.Object); ok {
		for _, key := range args.Keys() {
			a, ok := args.Get(key).(*goja.Object)
			if !ok {
				continue
			}
			cmd.Arguments = append(cmd.Arguments, engine.Argument{
				Name:     stringProp(a, "name"),
				Required: a.Get("required") != nil && a.Get("required").ToBoolean(),
				HelpText: stringProp(a, "helpText"),
			})
		}
	}
	return cmd
}

func stringProp(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

// method resolves v as a function, or as an object exposing the named method.
func method(v goja.Value, name string) (goja.Callable, goja.Value, bool) {
	if fn, ok := goja.AssertFunction(v); ok {
		return fn, goja.Undefined(), true
	}
	if obj, ok := v.(*goja.Object); ok {
		if fn, ok := goja.AssertFunction(obj.Get(name)); ok {
			return fn, obj, true
		}
	}
	return nil, nil, false
}

func scriptHandler(s *session, v goja.Value) engine.Handler {
	fn, this, ok := method(v, "executeCommand")
	if !ok {
		return nil
	}
	return engine.HandlerFunc(func(ctx *engine.ExecutionContext) error {
		params := s.vm.NewObject()
		if ctx.Arguments == nil {
			_ = params.Set("arguments", goja.Null())
		} else {
			_ = params.Set("arguments", s.vm.ToValue(ctx.Arguments))
		}
		_ = params.Set("additionalData", s.vm.ToValue(ctx.Data))
		return s.guarded(func() error {
			_, err := fn(this, params)
			return err
		})
	})
}

func scriptCompleter(s *session, v goja.Value) engine.Completer {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	fn, this, ok := method(v, "autocomplete")
	if !ok {
		return nil
	}
	return engine.CompleterFunc(func(args []string) []string {
		var out []string
		err := s.guarded(func() error {
			res, err := fn(this, s.vm.ToValue(args))
			if err != nil {
				return err
			}
			return s.vm.ExportTo(res, &out)
		})
		if err != nil {
			s.logger.Warn("script autocomplete failed", "error", err)
			return nil
		}
		return out
	})
}

// runTimed implements console.runTimed(steps, delayMs, onDone?, onCancel?).
// It blocks the script until the run ends and returns whether it completed.
func runTimed(s *session, c ScriptConsole, call goja.FunctionCall) goja.Value {
	list, ok := call.Argument(0).(*goja.Object)
	if !ok {
		s.throw("runTimed: steps must be an array")
	}
	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond

	var steps []timed.Step
	for _, key := range list.Keys() {
		item := list.Get(key)
		if fn, ok := goja.AssertFunction(item); ok {
			steps = append(steps, timed.Func(func(ev *timed.Event) string {
				res, err := fn(goja.Undefined(), eventObject(s, ev))
				if err != nil {
					s.rethrow(err)
				}
				if res == nil || goja.IsUndefined(res) || goja.IsNull(res) {
					return ""
				}
				return res.String()
			}))
			continue
		}
		steps = append(steps, timed.Text(item.String()))
	}

	runner := *c.Timed()
	sleep := runner.Sleep
	if sleep == nil {
		sleep = timed.Sleep
	}
	runner.Sleep = func(ctx context.Context, d time.Duration) error {
		s.guard.pause()
		defer s.guard.resume()
		return sleep(ctx, d)
	}

	ctx := c.Context()
	if ctx == nil {
		ctx = s.ctx
	}
	ev, err := runner.Run(ctx, steps, delay)

	callback := call.Argument(2)
	if err != nil {
		callback = call.Argument(3)
	}
	if fn, ok := goja.AssertFunction(callback); ok {
		if _, cbErr := fn(goja.Undefined(), eventObject(s, ev)); cbErr != nil {
			s.rethrow(cbErr)
		}
	}
	return s.vm.ToValue(err == nil)
}

func eventObject(s *session, ev *timed.Event) *goja.Object {
	obj := s.vm.NewObject()
	_ = obj.Set("cancel", func(goja.FunctionCall) goja.Value {
		ev.Cancel()
		return goja.Undefined()
	})
	_ = obj.Set("isCanceled", func(goja.FunctionCall) goja.Value {
		return s.vm.ToValue(ev.Canceled())
	})
	_ = obj.Set("setProperty", func(call goja.FunctionCall) goja.Value {
		ev.Set(call.Argument(0).String(), call.Argument(1).Export())
		return goja.Undefined()
	})
	_ = obj.Set("getProperty", func(call goja.FunctionCall) goja.Value {
		v, ok := ev.Get(call.Argument(0).String())
		if !ok {
			return goja.Undefined()
		}
		return s.vm.ToValue(v)
	})
	return obj
}
