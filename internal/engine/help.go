package engine

import (
	"fmt"
	"strings"
)

// HelpBanner is the first line of the command listing.
const HelpBanner = "Parameters are shown with _emphasis_. Optional parameters in [_square brackets_]"

func (e *Engine) showHelp(parsed *ParsedInput) {
	if len(parsed.Arguments) == 0 {
		e.mu.RLock()
		lines := make([]string, 0, len(e.commands)+1)
		lines = append(lines, HelpBanner)
		for _, name := range e.sortedNames() {
			lines = append(lines, HelpText(e.commands[name].command, false))
		}
		e.mu.RUnlock()

		for _, line := range lines {
			e.printer.PrintLine(line)
		}
		return
	}

	name := parsed.Arguments[0]
	cmd, ok := e.Lookup(name)
	if !ok {
		e.printer.PrintLine(fmt.Sprintf("Command **%s** not found!", name))
		return
	}
	e.printer.PrintLine(HelpText(cmd, true))
}

// HelpText formats cmd as markdown. The extended form appends an
// Arguments section describing every declared argument.
func HelpText(cmd Command, extended bool) string {
	text := fmt.Sprintf("**%s %s **- %s", cmd.Name, signature(cmd.Arguments), cmd.HelpText)
	if !extended || len(cmd.Arguments) == 0 {
		return text
	}

	parts := make([]string, 0, len(cmd.Arguments))
	for _, arg := range cmd.Arguments {
		name := "**" + arg.Name + "**"
		if !arg.Required {
			name = "**[" + arg.Name + "]**"
		}
		parts = append(parts, name+" - "+arg.HelpText)
	}
	return text + "\n\n### Arguments\n" + strings.Join(parts, "\n\n")
}

func signature(args []Argument) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg.Required {
			parts = append(parts, "_"+arg.Name+"_")
		} else {
			parts = append(parts, "[_"+arg.Name+"_]")
		}
	}
	return strings.Join(parts, " ")
}
