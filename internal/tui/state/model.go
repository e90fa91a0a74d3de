// Package state is the bubbletea model of the interactive console.
package state

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianoliveira/questterm/internal/console"
	"github.com/cristianoliveira/questterm/internal/errors"
	"github.com/cristianoliveira/questterm/internal/hotkeys"
	transcript "github.com/cristianoliveira/questterm/internal/render"
	"github.com/cristianoliveira/questterm/internal/tui/render"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 22
	chromeLines           = 4
	editorHeight          = 10
	statusClearDuration   = 5 * time.Second
	eventBuffer           = 256
)

// Opener creates the console a closed console handed over to.
type Opener interface {
	Open(name string) *console.Console
	Next() (string, bool)
}

// Options configures a Model.
type Options struct {
	// Console is the name of the content bundle to start.
	Console string
	// Renderer renders transcript lines. Nil renders plain text.
	Renderer *transcript.Renderer
	// Copy puts text on the clipboard. Nil uses the system clipboard.
	Copy func(string) error
	// Opener, if set, lets a closing console connect to another one
	// instead of quitting.
	Opener Opener
}

// Model is the TUI of one console.
type Model struct {
	console      *console.Console
	name         string
	transcript   *transcript.Renderer
	keys         *hotkeys.Registry
	errorHandler *errors.TUIHandler
	status       errors.Message
	hasStatus    bool

	viewport viewport.Model
	input    textinput.Model
	editor   textarea.Model
	// editorCtx is the editable context shown in editor, nil otherwise.
	editorCtx *console.Context
	editing   bool

	events      chan tea.Msg
	pending     tea.Cmd
	busy        bool
	started     bool
	pinnedTop   bool
	completions []string
	selected    int
	width       int
	height      int
	copy        func(string) error
	opener      Opener
}

// NewModel creates the model and subscribes it to the console events.
func NewModel(c *console.Console, opts Options) *Model {
	input := textinput.New()
	input.Prompt = "$ "
	input.Focus()

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.SetHeight(editorHeight)

	m := &Model{
		console:    c,
		name:       opts.Console,
		transcript: opts.Renderer,
		keys:       hotkeys.New(),
		viewport:   viewport.New(defaultViewportWidth, defaultViewportHeight),
		input:      input,
		editor:     editor,
		events:     make(chan tea.Msg, eventBuffer),
		copy:       opts.Copy,
		opener:     opts.Opener,
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.status = msg
		m.hasStatus = msg.Text != ""
	})

	m.attach(c)
	m.registerHotkeys()
	return m
}

// attach subscribes the model to the events of c.
func (m *Model) attach(c *console.Console) {
	c.On.ContextChanged(func(index int) { m.send(contextChangedMsg{index: index}) })
	c.On.LinePrinted(func(string) { m.send(linePrintedMsg{}) })
	c.On.ScrollTop(func() { m.send(scrollTopMsg{}) })
	c.On.Close(func() {
		go func() { m.events <- closeMsg{} }()
	})
}

// handOver replaces a closed console with the one it connected to. It
// reports false when there is none.
func (m *Model) handOver() bool {
	if m.opener == nil {
		return false
	}
	name, ok := m.opener.Next()
	if !ok {
		return false
	}
	m.console.Shutdown()
	m.console = m.opener.Open(name)
	m.name = name
	m.attach(m.console)
	m.started = false
	m.pinnedTop = false
	m.completions = nil
	m.syncEditor()
	m.refresh()
	return true
}

// send forwards a console event without blocking the command that fired it.
// Dropped redraws are recovered by the refresh after the command returns.
func (m *Model) send(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

func (m *Model) start() tea.Cmd {
	c, name := m.console, m.name
	return func() tea.Msg {
		c.ConnectView()
		return startedMsg{err: c.Start(context.Background(), name)}
	}
}

// Init connects the view and starts the console.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.start(), m.waitForEvent())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case startedMsg:
		m.started = true
		m.syncEditor()
		m.refresh()
		if msg.err != nil {
			m.errorHandler.Error("Could not start console: " + msg.err.Error())
			return m, clearStatusAfter(statusClearDuration)
		}
		return m, nil
	case contextChangedMsg:
		m.pinnedTop = false
		m.completions = nil
		m.syncEditor()
		m.refresh()
		return m, tea.Batch(m.waitForEvent(), m.input.Focus())
	case linePrintedMsg:
		m.pinnedTop = false
		m.refresh()
		return m, m.waitForEvent()
	case scrollTopMsg:
		m.pinnedTop = true
		m.refresh()
		return m, m.waitForEvent()
	case closeMsg:
		if m.handOver() {
			return m, tea.Batch(m.start(), m.waitForEvent())
		}
		return m, tea.Quit
	case commandDoneMsg:
		m.busy = false
		m.syncEditor()
		m.refresh()
		if m.editing {
			return m, nil
		}
		return m, m.input.Focus()
	case clearStatusMsg:
		m.status = errors.Message{}
		m.hasStatus = false
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		m.resize(defaultViewportWidth, defaultViewportHeight+chromeLines)
	}

	x := m.console.Current()
	var s strings.Builder
	s.WriteString(render.Header(render.HeaderState{Console: m.name, Depth: m.console.Depth(), Width: m.width}))
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	if m.editorCtx != nil {
		s.WriteString(m.editor.View())
		s.WriteString("\n")
	}
	if x == nil || x.Config.ShowInput {
		s.WriteString(m.input.View())
		s.WriteString("\n")
	}

	status := ""
	if m.hasStatus {
		status = m.status.Text
	}
	s.WriteString(render.Footer(render.FooterState{
		Busy:        m.busy,
		Editing:     m.editorCtx != nil,
		Nested:      m.console.Depth() > 1,
		Completions: m.completionView(),
		Status:      status,
		StatusType:  m.status.Type,
		Width:       m.width,
	}))
	return s.String()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = width - len(m.input.Prompt) - 1
	m.editor.SetWidth(width)

	h := height - chromeLines
	if m.editorCtx != nil {
		h -= editorHeight
	}
	if h < 1 {
		h = 1
	}
	m.viewport.Width = width
	m.viewport.Height = h
	m.refresh()
}

// refresh redraws the transcript of the current context.
func (m *Model) refresh() {
	x := m.console.Current()
	if x == nil {
		m.viewport.SetContent("Loading…")
		return
	}
	m.viewport.SetContent(m.transcript.Lines(x.Lines()))
	if m.pinnedTop {
		m.viewport.GotoTop()
	} else {
		m.viewport.GotoBottom()
	}

	if m.editorCtx != nil && !m.editing {
		if b := m.editorCtx.Buffer(); b != nil && b.Content() != m.editor.Value() {
			m.editor.SetValue(b.Content())
		}
	}
}

// syncEditor attaches the editor to the current context when it is editable.
func (m *Model) syncEditor() {
	x := m.console.Current()
	if x != nil && x.Config.Editable && x.Buffer() != nil {
		if m.editorCtx != x {
			m.editorCtx = x
			m.editor.SetValue(x.Buffer().Content())
			if m.width > 0 {
				m.resize(m.width, m.height)
			}
		}
		return
	}
	if m.editorCtx != nil {
		m.editorCtx = nil
		m.editing = false
		m.editor.Blur()
		if m.width > 0 {
			m.resize(m.width, m.height)
		}
	}
}

// syncBuffer copies editor changes into the edit buffer.
func (m *Model) syncBuffer() {
	if m.editorCtx == nil {
		return
	}
	if b := m.editorCtx.Buffer(); b != nil && b.Content() != m.editor.Value() {
		b.SetContent(m.editor.Value())
	}
}

func (m *Model) completionView() []string {
	if len(m.completions) == 0 {
		return nil
	}
	out := make([]string, len(m.completions))
	for i, c := range m.completions {
		if i == m.selected {
			out[i] = "[" + c + "]"
		} else {
			out[i] = c
		}
	}
	return out
}
