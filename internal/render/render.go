// Package render turns transcript lines into terminal text: markdown through
// glamour, [color]...[/color] tags through lipgloss and HTML through goquery.
package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/cristianoliveira/questterm/internal/logging"
)

// Styles accepted by Options.Style.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

var tagColors = map[string]lipgloss.Color{
	"red":     lipgloss.Color("1"),
	"green":   lipgloss.Color("2"),
	"yellow":  lipgloss.Color("3"),
	"blue":    lipgloss.Color("4"),
	"magenta": lipgloss.Color("5"),
	"cyan":    lipgloss.Color("6"),
	"gray":    lipgloss.Color("8"),
}

var colorTag = regexp.MustCompile(`\[([a-z]+)\]([\s\S]*?)\[/([a-z]+)\]`)

// Options configures a Renderer.
type Options struct {
	Style    string
	WordWrap int
	// Plain disables markdown rendering and strips color tags.
	Plain  bool
	Logger logging.Logger
}

// Renderer renders transcript lines. The zero value renders plain text.
type Renderer struct {
	md     *glamour.TermRenderer
	plain  bool
	logger logging.Logger
}

// New builds a renderer. If glamour cannot be set up the renderer falls back
// to plain text.
func New(opts Options) *Renderer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Noop()
	}
	r := &Renderer{plain: opts.Plain, logger: logger}
	if opts.Plain {
		return r
	}

	style := glamour.WithAutoStyle()
	switch opts.Style {
	case StyleDark, StyleLight, StyleNoTTY:
		style = glamour.WithStandardStyle(opts.Style)
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.WordWrap))
	if err != nil {
		logger.Warn("markdown renderer unavailable", "error", err)
		return r
	}
	r.md = md
	return r
}

// Markdown renders text as markdown, or returns it unchanged when rendering
// is off or fails.
func (r *Renderer) Markdown(text string) string {
	if r == nil || r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		r.logger.Warn("markdown render failed", "error", err)
		return text
	}
	return strings.Trim(out, "\n")
}

// Line renders one transcript line.
func (r *Renderer) Line(line string) string {
	if r == nil || r.plain {
		return StripTags(line)
	}
	return Colorize(r.Markdown(line))
}

// Lines renders a transcript, one block per line.
func (r *Renderer) Lines(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.Line(l)
	}
	return strings.Join(out, "\n")
}

// Colorize replaces known color tags with terminal colors. Unknown or
// mismatched tags are left as they are.
func Colorize(s string) string {
	return colorTag.ReplaceAllStringFunc(s, func(m string) string {
		parts := colorTag.FindStringSubmatch(m)
		color, ok := tagColors[parts[1]]
		if !ok || parts[1] != parts[3] {
			return m
		}
		return lipgloss.NewStyle().Foreground(color).Render(parts[2])
	})
}

// StripTags removes known color tags and keeps their text.
func StripTags(s string) string {
	return colorTag.ReplaceAllStringFunc(s, func(m string) string {
		parts := colorTag.FindStringSubmatch(m)
		if _, ok := tagColors[parts[1]]; !ok || parts[1] != parts[3] {
			return m
		}
		return parts[2]
	})
}
