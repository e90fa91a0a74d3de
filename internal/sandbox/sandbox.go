// Package sandbox runs content scripts in an embedded JavaScript runtime.
//
// Scripts are wrapped so that every global of the runtime that is not on a
// short allow-list is shadowed by a local binding set to undefined. This is a
// best-effort neutralisation of ambient state, not a security boundary: code
// that reaches the Function constructor through an object's prototype chain
// can still evaluate in the global scope. The runtime itself has no access to
// the file system, network or process; the only host capabilities a script
// gets are the ones passed in its parameter object.
package sandbox

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/cristianoliveira/questterm/internal/errors"
	"github.com/cristianoliveira/questterm/internal/logging"
)

// Dialect is the authoring language of a script.
type Dialect string

const (
	TypeScript Dialect = "typescript"
	JavaScript Dialect = "javascript"
)

// DefaultTimeout bounds a single entry into the runtime.
const DefaultTimeout = 2 * time.Second

// AllowedGlobals stay visible to scripts. Everything else the runtime
// defines globally is shadowed.
var AllowedGlobals = []string{
	"Math", "NaN", "Infinity", "parseInt", "parseFloat", "isNaN", "isFinite",
	"Date", "Object", "JSON", "print",
}

var (
	identifier = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	namespace  = regexp.MustCompile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*$`)
)

// RunConfig describes one script invocation.
type RunConfig struct {
	// Scripts are concatenated in order inside the same scope.
	Scripts []string
	Dialect Dialect
	// RunNamespace is the dotted path to the object holding run, e.g. "intro.connect".
	RunNamespace string
	Console      ScriptConsole
	Arguments    []string
	// AdditionalData entries become extra properties of the parameter object.
	AdditionalData map[string]any
}

// ScriptError is a JavaScript exception raised by a script.
type ScriptError struct {
	Message string
	Stack   string
}

func (e *ScriptError) Error() string { return e.Message }

func (e *ScriptError) Unwrap() error { return errors.ErrScript }

// Engine compiles and runs scripts. Each Run gets a fresh runtime.
type Engine struct {
	timeout time.Duration
	logger  logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets how long a script may run before it is interrupted.
// Time spent waiting between timed steps does not count.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the sink for print() and debug output.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, logger: logging.Noop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run compiles cfg.Scripts, resolves <RunNamespace>.run and calls it once
// with {console, arguments, ...AdditionalData}.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) error {
	if !namespace.MatchString(cfg.RunNamespace) {
		return errors.Wrap(errors.ErrScript, "invalid run namespace %q", cfg.RunNamespace)
	}
	if cfg.Console == nil {
		return errors.Wrap(errors.ErrScript, "no console")
	}

	sources := make([]string, 0, len(cfg.Scripts))
	for i, src := range cfg.Scripts {
		js, err := Compile(src, cfg.Dialect)
		if err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
		sources = append(sources, js)
	}

	s := newSession(ctx, e.timeout, e.logger.With("namespace", cfg.RunNamespace))
	wrapped := wrap(cfg.RunNamespace, sources, shadowedGlobals(s.vm))
	e.logger.Debug("running script", "namespace", cfg.RunNamespace, "bytes", len(wrapped))

	prg, err := goja.Compile(cfg.RunNamespace, wrapped, false)
	if err != nil {
		return errors.Wrap(errors.ErrScript, "compile: %v", err)
	}

	var entry goja.Value
	err = s.guarded(func() error {
		var runErr error
		entry, runErr = s.vm.RunProgram(prg)
		return runErr
	})
	if err != nil {
		return err
	}

	run, ok := goja.AssertFunction(entry)
	if !ok {
		return errors.Wrap(errors.ErrScript, "%s.run is not a function", cfg.RunNamespace)
	}

	params := s.vm.NewObject()
	for name, value := range cfg.AdditionalData {
		_ = params.Set(name, value)
	}
	_ = params.Set("console", newConsoleObject(s, cfg.Console))
	args := cfg.Arguments
	if args == nil {
		args = []string{}
	}
	_ = params.Set("arguments", s.vm.ToValue(args))

	_, err = s.call(run, params)
	return err
}

// Compile turns source in dialect into plain JavaScript.
func Compile(source string, dialect Dialect) (string, error) {
	switch dialect {
	case JavaScript:
		return source, nil
	case TypeScript, "":
		result := api.Transform(source, api.TransformOptions{
			Loader: api.LoaderTS,
			Target: api.ES2015,
		})
		if len(result.Errors) > 0 {
			msgs := make([]string, 0, len(result.Errors))
			for _, m := range result.Errors {
				if m.Location != nil {
					msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
				} else {
					msgs = append(msgs, m.Text)
				}
			}
			return "", errors.Wrap(errors.ErrScript, "compile: %s", strings.Join(msgs, "; "))
		}
		return string(result.Code), nil
	default:
		return "", errors.Wrap(errors.ErrScript, "unsupported dialect %q", dialect)
	}
}

// wrap builds the program: an outer scope shadowing globals, an inner scope
// declaring the root namespace object, the sources, and the run lookup.
func wrap(runNamespace string, sources []string, shadowed []string) string {
	root := runNamespace
	if i := strings.IndexByte(root, '.'); i >= 0 {
		root = root[:i]
	}

	var b strings.Builder
	b.WriteString("(function(){\n")
	if len(shadowed) > 0 {
		b.WriteString("var ")
		for i, name := range shadowed {
			if i > 0 {
				b.WriteString(",\n  ")
			}
			b.WriteString(name)
			b.WriteString(" = undefined")
		}
		b.WriteString(";\n")
	}
	b.WriteString("return (function(){\nvar ")
	b.WriteString(root)
	b.WriteString(" = {};\n")
	b.WriteString(strings.Join(sources, "\n"))
	b.WriteString("\nreturn ")
	b.WriteString(runNamespace)
	b.WriteString(".run;\n})();\n})();\n")
	return b.String()
}

// shadowedGlobals lists the global names of vm that scripts must not see.
func shadowedGlobals(vm *goja.Runtime) []string {
	allowed := make(map[string]bool, len(AllowedGlobals))
	for _, name := range AllowedGlobals {
		allowed[name] = true
	}

	var out []string
	for _, name := range vm.GlobalObject().GetOwnPropertyNames() {
		if allowed[name] || name == "undefined" || !identifier.MatchString(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// toError converts runtime failures into errors for the dispatch boundary.
func (s *session) toError(err error) error {
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if stderrors.As(err, &interrupted) {
		return errors.Wrap(errors.ErrScript, "script interrupted after %s", s.guard.timeout)
	}
	var exc *goja.Exception
	if stderrors.As(err, &exc) {
		msg := exc.Error()
		if v := exc.Value(); v != nil {
			msg = v.String()
		}
		return &ScriptError{Message: msg, Stack: exc.String()}
	}
	return err
}
