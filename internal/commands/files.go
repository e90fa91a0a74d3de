package commands

import (
	"fmt"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/engine"
)

// Ls lists the files of the console.
type Ls struct {
	console *console.Console
}

func (h *Ls) Execute(ctx *engine.ExecutionContext) error {
	files := h.console.GetFiles()
	if len(files) == 0 {
		h.console.PrintLine("There are no files in the terminal.")
	}

	all := ctx.Arg(0) == "all"
	shown := files[:0:0]
	for _, f := range files {
		if all || !f.Hidden() {
			shown = append(shown, f)
		}
	}

	h.console.PrintLine(fmt.Sprintf("Total **%d** files", len(shown)))
	for _, f := range shown {
		h.console.PrintLine(f.Permissions() + " " + f.Base)
	}
	return nil
}

// fileCompleter offers the file names for the first argument.
type fileCompleter struct {
	console *console.Console
}

func (c fileCompleter) Complete(args []string) []string {
	if len(args) > 1 {
		return []string{}
	}
	files := c.console.GetFiles()
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Base)
	}
	return names
}
