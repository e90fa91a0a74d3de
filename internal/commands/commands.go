// Package commands holds the built-in commands of the root context and the
// handler that runs content executables.
package commands

import (
	"time"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/content"
	"github.com/cristianoliveira/questterm/internal/engine"
)

// DefaultStepDelay is the pause between countdown steps.
const DefaultStepDelay = 400 * time.Millisecond

var (
	LsCommand = engine.Command{
		Name:     "ls",
		HelpText: "List files inside the terminal.",
		Arguments: []engine.Argument{
			{Name: "all", HelpText: "Also shows hidden files if specified."},
		},
	}
	CatCommand = engine.Command{
		Name:      "cat",
		HelpText:  "Shows the content of a file.",
		Arguments: []engine.Argument{fileArgument("The name of the file to show.")},
	}
	LessCommand = engine.Command{
		Name:      "less",
		HelpText:  "Shows the content of a file page by page.",
		Arguments: []engine.Argument{fileArgument("The name of the file to show.")},
	}
	ViCommand = engine.Command{
		Name:      "vi",
		HelpText:  "Open a file for editing.",
		Arguments: []engine.Argument{fileArgument("The name of the file to edit.")},
	}
	ExitCommand = engine.Command{
		Name:     "exit",
		HelpText: "Close the console.",
	}
	DisconnectCommand = engine.Command{
		Name:     "disconnect",
		HelpText: "Close the connection to the current server.",
	}
	CountdownCommand = engine.Command{
		Name:     "countdown",
		HelpText: "Count down before launching.",
		Arguments: []engine.Argument{
			{Name: "seconds", HelpText: "Where to start counting, 3 by default."},
		},
	}
)

func fileArgument(help string) engine.Argument {
	return engine.Argument{Name: "file", Required: true, HelpText: help}
}

// Installer registers the built-in commands and the content executables.
type Installer struct {
	// StepDelay is the countdown pace. Zero means DefaultStepDelay.
	StepDelay time.Duration
}

var _ console.Installer = Installer{}

// Defaults registers ls, cat, less, vi, exit, disconnect and countdown.
func (i Installer) Defaults(c *console.Console, root *console.Context) {
	files := fileCompleter{console: c}
	root.RegisterCommand(LsCommand, &Ls{console: c}, nil)
	root.RegisterCommand(CatCommand, &Reader{console: c, quit: "quit"}, files)
	root.RegisterCommand(LessCommand, &Reader{console: c, quit: "q"}, files)
	root.RegisterCommand(ViCommand, &Vi{console: c}, files)
	root.RegisterCommand(ExitCommand, &Exit{console: c}, nil)
	root.RegisterCommand(DisconnectCommand, &Disconnect{console: c}, nil)

	delay := i.StepDelay
	if delay <= 0 {
		delay = DefaultStepDelay
	}
	root.RegisterCommand(CountdownCommand, &Countdown{console: c, delay: delay}, nil)
}

// Executables registers one command per executable of the content.
func (i Installer) Executables(c *console.Console, root *console.Context, exes []content.Executable) {
	for _, exe := range exes {
		root.RegisterCommand(exe.Command, &Executable{console: c, exe: exe}, nil)
	}
}

// Exit asks the front end to close.
type Exit struct {
	console *console.Console
}

func (h *Exit) Execute(*engine.ExecutionContext) error {
	h.console.Close()
	return nil
}

// Disconnect leaves the current server.
type Disconnect struct {
	console *console.Console
}

func (h *Disconnect) Execute(*engine.ExecutionContext) error {
	h.console.Fire("server.disconnected", nil)
	return nil
}

// Executable runs the script file behind a content executable.
type Executable struct {
	console *console.Console
	exe     content.Executable
}

func (h *Executable) Execute(ctx *engine.ExecutionContext) error {
	file, ok := h.console.GetFile(h.exe.File)
	if !ok {
		h.console.PrintLine("Script **" + h.exe.File + "** not found.")
		return nil
	}
	return h.console.RunScript(h.exe, file.Content, ctx)
}
