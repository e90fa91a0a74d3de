package app

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/render"
)

// Opener creates consoles and reports hand-overs between them.
type Opener interface {
	Open(name string) *console.Console
	Next() (string, bool)
}

// RunUseCase dispatches command lines without an interactive front end.
type RunUseCase struct {
	opener   Opener
	renderer *render.Renderer
}

// NewRunUseCase creates a run use-case. A nil renderer prints plain text.
func NewRunUseCase(opener Opener, renderer *render.Renderer) *RunUseCase {
	if opener == nil {
		panic("NewRunUseCase: opener dependency cannot be nil")
	}
	return &RunUseCase{opener: opener, renderer: renderer}
}

// Execute starts console name, runs lines in order and streams every
// printed line to w. A console that connects elsewhere is replaced by its
// target; a console closed for good stops the run.
func (u *RunUseCase) Execute(ctx context.Context, name string, lines []string, w io.Writer) error {
	for {
		c := u.opener.Open(name)
		var closed atomic.Bool
		c.On.LinePrinted(func(line string) {
			fmt.Fprintln(w, u.renderer.Line(line))
		})
		c.On.Close(func() { closed.Store(true) })

		c.ConnectView()
		if err := c.Start(ctx, name); err != nil {
			c.Shutdown()
			return err
		}

		for len(lines) > 0 && !closed.Load() {
			if err := ctx.Err(); err != nil {
				c.Shutdown()
				return err
			}
			c.ExecuteCommand(lines[0])
			lines = lines[1:]
		}
		c.Shutdown()

		next, ok := u.opener.Next()
		if !ok || len(lines) == 0 {
			return nil
		}
		name = next
	}
}
