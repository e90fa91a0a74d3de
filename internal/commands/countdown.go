package commands

import (
	"strconv"
	"time"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/engine"
	"github.com/cristianoliveira/questterm/internal/errors"
	"github.com/cristianoliveira/questterm/internal/timed"
)

const maxCountdown = 60

// Countdown prints a timed countdown.
type Countdown struct {
	console *console.Console
	delay   time.Duration
}

func (h *Countdown) Execute(ctx *engine.ExecutionContext) error {
	from := 3
	if arg := ctx.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > maxCountdown {
			h.console.PrintLine("Usage: **countdown** [_seconds_] with seconds between 1 and " + strconv.Itoa(maxCountdown))
			return nil
		}
		from = n
	}

	steps := make([]timed.Step, 0, from+1)
	for i := from; i > 0; i-- {
		steps = append(steps, timed.Text(strconv.Itoa(i)))
	}
	steps = append(steps, timed.Func(func(ev *timed.Event) string {
		ev.Set("launched", true)
		return "[green]Liftoff![/green]"
	}))

	_, err := h.console.Timed().Run(h.console.Context(), steps, h.delay)
	if errors.Is(err, timed.ErrCanceled) {
		h.console.PrintLine("Countdown canceled.")
		return nil
	}
	return err
}
