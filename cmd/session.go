package cmd

import (
	"fmt"

	"github.com/cristianoliveira/questterm/internal/app"
	"github.com/cristianoliveira/questterm/internal/assets"
	"github.com/cristianoliveira/questterm/internal/config"
	"github.com/cristianoliveira/questterm/internal/logging"
	"github.com/cristianoliveira/questterm/internal/render"
)

// newSession is swapped in tests.
var newSession = func() (*app.Session, error) {
	s, err := app.NewSessionFromConfig(assets.Consoles(), logging.GetGlobal())
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return s, nil
}

// newRenderer builds the transcript renderer from the configuration.
// plain drops markdown styling, for output that is not a terminal.
func newRenderer(plain bool) *render.Renderer {
	return render.New(render.Options{
		Style:    config.Get("markdown_style", render.StyleAuto),
		WordWrap: config.GetInt("word_wrap", 100),
		Plain:    plain,
		Logger:   logging.GetGlobal(),
	})
}

// consoleName returns the console named in args or the configured home.
func consoleName(args []string, home string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return home
}
