package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// startedMsg is sent when Console.Start returns.
type startedMsg struct {
	err error
}

// contextChangedMsg is sent after a context push or pop.
type contextChangedMsg struct {
	index int
}

// linePrintedMsg is sent after a line is printed to the current context.
type linePrintedMsg struct{}

// scrollTopMsg is sent when the console asks to show the first line.
type scrollTopMsg struct{}

// closeMsg is sent when the console asks to close.
type closeMsg struct{}

// commandDoneMsg is sent when a dispatched command returns.
type commandDoneMsg struct{}

// clearStatusMsg is sent to clear the status line after a delay.
type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
