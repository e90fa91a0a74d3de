// Package repl is the line mode front end: a go-prompt loop on terminals
// and a plain line reader for piped input.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	prompt "github.com/c-bata/go-prompt"
	"golang.org/x/term"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/render"
)

// Opener creates consoles and reports hand-overs between them.
type Opener interface {
	Open(name string) *console.Console
	Next() (string, bool)
}

// Options configures a REPL.
type Options struct {
	In       io.Reader
	Out      io.Writer
	Renderer *render.Renderer
	Logger   logging.Logger
}

// REPL runs one console at a time and follows hand-overs to the next.
type REPL struct {
	opener   Opener
	in       io.Reader
	out      io.Writer
	renderer *render.Renderer
	logger   logging.Logger

	console *console.Console
	name    string
	closed  atomic.Bool
}

type promptExit struct{}

// New creates a REPL. Nil streams default to stdin and stdout.
func New(opener Opener, opts Options) *REPL {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	return &REPL{
		opener:   opener,
		in:       opts.In,
		out:      opts.Out,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
}

// Run starts console name and reads commands until it closes for good.
// Stdin that is not a terminal is read line by line without a prompt.
func (r *REPL) Run(ctx context.Context, name string) error {
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return r.runPrompt(ctx, name, int(f.Fd()))
	}
	return r.RunLines(ctx, name)
}

// RunLines executes every line of the input in order.
func (r *REPL) RunLines(ctx context.Context, name string) error {
	if err := r.open(ctx, name); err != nil {
		return err
	}
	defer r.shutdown()

	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if !r.execute(ctx, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func (r *REPL) runPrompt(ctx context.Context, name string, fd int) (err error) {
	if err := r.open(ctx, name); err != nil {
		return err
	}
	defer r.shutdown()

	if state, terr := term.GetState(fd); terr == nil {
		defer func() { _ = term.Restore(fd, state) }()
	}

	var exitRequested atomic.Bool
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(promptExit); ok {
				err = nil
				return
			}
			panic(rec)
		}
	}()
	exit := func() {
		exitRequested.Store(true)
		panic(promptExit{})
	}

	executor := func(in string) {
		if exitRequested.Load() || ctx.Err() != nil {
			return
		}
		if !r.execute(ctx, in) {
			exit()
		}
	}

	p := prompt.New(
		executor,
		r.complete,
		prompt.OptionTitle("questterm"),
		prompt.OptionLivePrefix(func() (string, bool) {
			return r.prefix(), true
		}),
		prompt.OptionAddKeyBind(
			prompt.KeyBind{
				Key: prompt.ControlC,
				Fn:  func(*prompt.Buffer) { exit() },
			},
			prompt.KeyBind{
				Key: prompt.ControlD,
				Fn: func(buf *prompt.Buffer) {
					if buf.Text() == "" {
						exit()
					}
				},
			},
			prompt.KeyBind{
				Key: prompt.Escape,
				Fn: func(*prompt.Buffer) {
					if r.console.PopContext() {
						fmt.Fprintln(r.out)
					}
				},
			},
		),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool {
			return exitRequested.Load() || ctx.Err() != nil
		}),
	)
	p.Run()
	return nil
}

// open starts console name and streams its output.
func (r *REPL) open(ctx context.Context, name string) error {
	c := r.opener.Open(name)
	r.console, r.name = c, name
	r.closed.Store(false)

	c.On.LinePrinted(func(line string) {
		fmt.Fprintln(r.out, r.renderer.Line(line))
	})
	c.On.Close(func() { r.closed.Store(true) })

	c.ConnectView()
	if err := c.Start(ctx, name); err != nil {
		c.Shutdown()
		return err
	}
	return nil
}

func (r *REPL) shutdown() {
	if r.console != nil {
		r.console.Shutdown()
	}
}

// execute runs line and reports whether the loop continues. A closed
// console is replaced by its hand-over target, if any.
func (r *REPL) execute(ctx context.Context, line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	r.console.ExecuteCommand(line)
	if !r.closed.Load() {
		return true
	}

	next, ok := r.opener.Next()
	if !ok {
		return false
	}
	r.shutdown()
	r.logger.Info("console handed over", "from", r.name, "to", next)
	if err := r.open(ctx, next); err != nil {
		r.logger.Error("could not start console", "console", next, "error", err)
		return false
	}
	return true
}

func (r *REPL) prefix() string {
	depth := r.console.Depth()
	if depth > 1 {
		return fmt.Sprintf("%s %s $ ", r.name, strings.Repeat("›", depth-1))
	}
	return r.name + " $ "
}

// complete offers the word that completes the line before the cursor.
func (r *REPL) complete(doc prompt.Document) []prompt.Suggest {
	before := doc.TextBeforeCursor()
	if strings.TrimSpace(before) == "" {
		return nil
	}
	return suggestions(r.console.Autocomplete(before))
}

// suggestions turns whole-line completions into go-prompt suggestions for
// the last word.
func suggestions(choices []string) []prompt.Suggest {
	out := make([]prompt.Suggest, 0, len(choices))
	for _, choice := range choices {
		text := choice
		if i := strings.LastIndexByte(choice, ' '); i >= 0 {
			text = choice[i+1:]
		}
		out = append(out, prompt.Suggest{Text: text})
	}
	return out
}
