package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the root model's key bindings.
type KeyMap struct {
	Start     key.Binding
	Stop      key.Binding
	Reset     key.Binding
	Theme     key.Binding
	ThemeBack key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s", " ", "enter"),
			key.WithHelp("s/space", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		ThemeBack: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "prev theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Reset},
		{k.Theme, k.ThemeBack, k.Help, k.Quit},
	}
}
