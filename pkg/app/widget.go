package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// Widget is a self-contained piece of terminal UI hosted by the root model.
type Widget interface {
	ID() string
	Title() string
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	MinSize() (minW, minH int)
	HandleKey(key tea.KeyMsg) tea.Cmd
}

// Ring is a Widget that runs a countdown. All methods are called on the
// update goroutine.
type Ring interface {
	Widget
	Start() error
	Stop()
	Reset() error
	State() countdown.State
	Snapshot() countdown.RenderState
	SetTheme(t theme.Theme) error
}
