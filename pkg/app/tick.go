package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// QuitAfter returns a Cmd that quits the program once d has elapsed. A
// non-positive d quits on the next update.
func QuitAfter(d time.Duration) tea.Cmd {
	if d <= 0 {
		return tea.Quit
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return tea.QuitMsg{}
	})
}

// StartCmd is a Cmd that delivers a StartEvent.
func StartCmd() tea.Msg {
	return StartEvent{}
}
