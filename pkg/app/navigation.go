package app

import (
	"fmt"

	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// CycleThemeForward switches to the next theme in the cycle, wrapping
// around to the first theme after the last.
func (m *AppModel) CycleThemeForward() {
	if len(m.themes) == 0 {
		return
	}
	m.themeIdx = (m.themeIdx + 1) % len(m.themes)
	if err := m.applyTheme(m.themes[m.themeIdx]); err != nil {
		m.status = err.Error()
	}
}

// CycleThemeBackward switches to the previous theme, wrapping around to the
// last theme before the first.
func (m *AppModel) CycleThemeBackward() {
	if len(m.themes) == 0 {
		return
	}
	m.themeIdx = (m.themeIdx - 1 + len(m.themes)) % len(m.themes)
	if err := m.applyTheme(m.themes[m.themeIdx]); err != nil {
		m.status = err.Error()
	}
}

// ThemeName returns the name of the active theme in the cycle.
func (m AppModel) ThemeName() string {
	if len(m.themes) == 0 {
		return ""
	}
	return m.themes[m.themeIdx]
}

// applyTheme looks up name and hands the palette to the ring. Unknown names
// leave everything unchanged.
func (m *AppModel) applyTheme(name string) error {
	t, ok := theme.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	if m.ring != nil {
		if err := m.ring.SetTheme(t); err != nil {
			return err
		}
	}
	theme.SetCurrent(name)
	for i, n := range m.themes {
		if n == name {
			m.themeIdx = i
		}
	}
	return nil
}
