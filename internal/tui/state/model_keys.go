package state

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	transcript "github.com/cristianoliveira/questterm/internal/render"
)

func (m *Model) registerHotkeys() {
	m.keys.Register("ctrl+c", func() bool {
		m.console.Shutdown()
		m.pending = tea.Quit
		return false
	})
	m.keys.Register("ctrl+y", func() bool {
		m.copyTranscript()
		return false
	})
	m.keys.Register("esc", func() bool {
		switch {
		case len(m.completions) > 0:
			m.completions = nil
		case m.editing:
			m.editing = false
			m.editor.Blur()
			m.pending = m.input.Focus()
		case !m.busy:
			m.console.PopContext()
		}
		return false
	})
	m.keys.Register("tab", func() bool {
		if !m.busy && !m.editing {
			m.autocomplete()
		}
		return false
	})
	m.keys.Register("ctrl+e", func() bool {
		if m.editorCtx == nil || m.busy {
			return false
		}
		m.editing = !m.editing
		if m.editing {
			m.input.Blur()
			m.pending = m.editor.Focus()
		} else {
			m.editor.Blur()
			m.pending = m.input.Focus()
		}
		return false
	})
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.pending = nil
	if m.keys.Dispatch(msg.String()) {
		cmd := m.pending
		m.pending = nil
		return m, cmd
	}
	if m.busy {
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		m.syncBuffer()
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyUp, tea.KeyDown:
		if len(m.completions) > 0 {
			m.moveSelection(msg.Type == tea.KeyDown)
			return m, nil
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the input line, or takes the selected completion when
// the list is shown.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	if len(m.completions) > 0 {
		m.input.SetValue(m.completions[m.selected])
		m.input.CursorEnd()
		m.completions = nil
		return m, nil
	}

	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	if x := m.console.Current(); x != nil && !x.Config.Editable {
		m.console.PrintLine("$ " + line)
	}
	m.busy = true
	c := m.console
	return m, func() tea.Msg {
		c.ExecuteCommand(line)
		return commandDoneMsg{}
	}
}

func (m *Model) autocomplete() {
	choices := m.console.Autocomplete(m.input.Value())
	switch len(choices) {
	case 0:
		m.completions = nil
	case 1:
		m.input.SetValue(choices[0])
		m.input.CursorEnd()
		m.completions = nil
	default:
		m.completions = choices
		m.selected = 0
	}
}

func (m *Model) moveSelection(forward bool) {
	n := len(m.completions)
	if forward {
		m.selected = (m.selected + 1) % n
	} else {
		m.selected = (m.selected - 1 + n) % n
	}
}

func (m *Model) copyTranscript() {
	x := m.console.Current()
	if x == nil {
		return
	}
	lines := x.Lines()
	for i, l := range lines {
		lines[i] = transcript.StripTags(l)
	}
	if err := m.copy(strings.Join(lines, "\n")); err != nil {
		m.errorHandler.Error("Copy failed: " + err.Error())
		return
	}
	m.errorHandler.Success("Transcript copied to clipboard")
}
