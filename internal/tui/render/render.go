// Package render draws the chrome around the console transcript: the header
// and the footer with key help, completions and status messages.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/cristianoliveira/questterm/internal/errors"
)

// HeaderState defines the inputs needed to render the header.
type HeaderState struct {
	Console string
	Depth   int
	Width   int
}

// FooterState defines the inputs needed to render the footer.
type FooterState struct {
	Busy        bool
	Editing     bool
	Nested      bool
	Completions []string
	Status      string
	StatusType  errors.MessageType
	Width       int
}

// Header renders the title line.
func Header(state HeaderState) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))

	title := "questterm"
	if state.Console != "" {
		title += " · " + state.Console
	}
	if state.Depth > 1 {
		title += fmt.Sprintf(" · %s", strings.Repeat("›", state.Depth-1))
	}
	return style.Render(truncate(title, state.Width))
}

// Footer renders completions, the status message and key help.
func Footer(state FooterState) string {
	var lines []string

	if len(state.Completions) > 0 {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Cyan)))
		lines = append(lines, style.Render(truncate(strings.Join(state.Completions, "  "), state.Width)))
	}

	if state.Status != "" {
		lines = append(lines, statusStyle(state.StatusType).Render(truncate(state.Status, state.Width)))
	}

	help := []string{"tab: complete", "ctrl+y: copy", "ctrl+c: quit"}
	if state.Nested {
		help = append([]string{"esc: back"}, help...)
	}
	if state.Editing {
		help = append([]string{"ctrl+e: edit/command"}, help...)
	}
	if state.Busy {
		help = []string{"running…", "ctrl+c: quit"}
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lines = append(lines, helpStyle.Render(truncate(strings.Join(help, "  •  "), state.Width)))

	return strings.Join(lines, "\n")
}

func statusStyle(t errors.MessageType) lipgloss.Style {
	color := colors.Cyan
	switch t {
	case errors.MessageTypeError:
		color = colors.Red
	case errors.MessageTypeWarning:
		color = colors.Yellow
	case errors.MessageTypeSuccess:
		color = colors.Green
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(color)))
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 || len(runes) <= 1 {
		return string(runes[:1])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// ansiColorNumber extracts the color number of an ANSI escape sequence.
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
