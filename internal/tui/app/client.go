package app

import (
	"fmt"

	"github.com/cristianoliveira/questterm/internal/colors"
	"github.com/cristianoliveira/questterm/internal/render"
	"github.com/cristianoliveira/questterm/internal/tui/state"
)

// Client defines dependencies needed by the tui command.
type Client interface {
	CreateModel(name string) *state.Model
	RunProgram(model *state.Model) error
}

// DefaultClient is the default adapter-based implementation used by CLI wiring.
type DefaultClient struct {
	opener        ConsoleOpener
	programRunner ProgramRunner
	renderer      *render.Renderer
}

// NewDefaultClient creates a default TUI client adapter.
// If programRunner is nil, a DefaultProgramRunner will be used.
func NewDefaultClient(opener ConsoleOpener, programRunner ProgramRunner, renderer *render.Renderer) *DefaultClient {
	if opener == nil {
		panic("NewDefaultClient: opener dependency cannot be nil")
	}
	if programRunner == nil {
		programRunner = NewDefaultProgramRunner()
	}
	return &DefaultClient{
		opener:        opener,
		programRunner: programRunner,
		renderer:      renderer,
	}
}

// CreateModel opens console name and builds its model.
func (d *DefaultClient) CreateModel(name string) *state.Model {
	return state.NewModel(d.opener.Open(name), state.Options{
		Console:  name,
		Renderer: d.renderer,
		Opener:   d.opener,
	})
}

// RunProgram starts the bubbletea program using the configured ProgramRunner.
func (d *DefaultClient) RunProgram(model *state.Model) error {
	err := d.programRunner.Run(model)
	if err != nil {
		colors.Error(fmt.Sprintf("Error running TUI: %v", err))
		return err
	}
	return nil
}
