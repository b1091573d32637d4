package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// ringZoneID marks the ring's area for click-to-start.
const ringZoneID = "ring"

// DefaultExitDelay is how long the finished ring stays on screen before an
// exit-on-finish program quits.
const DefaultExitDelay = 750 * time.Millisecond

// Options configures the root model.
type Options struct {
	AutoStart    bool          // start the ring from Init
	ExitOnFinish bool          // quit once the ring finishes
	ExitDelay    time.Duration // 0 means DefaultExitDelay
	Themes       []string      // theme cycle order; nil means theme.Names()
	Theme        string        // initial theme name, used to seed the cycle
	Zones        *zone.Manager // nil disables click-to-start
}

// AppModel is the root Bubbletea model. It owns one Ring and routes keys,
// mouse clicks and posted tasks to it.
type AppModel struct {
	ring  Ring
	opts  Options
	keys  KeyMap
	help  help.Model
	zones *zone.Manager

	width, height int
	ready         bool
	quitting      bool

	themes   []string
	themeIdx int
	status   string
}

// NewAppModel creates the root model around ring.
func NewAppModel(ring Ring, opts Options) AppModel {
	if opts.ExitDelay <= 0 {
		opts.ExitDelay = DefaultExitDelay
	}
	themes := opts.Themes
	if len(themes) == 0 {
		themes = theme.Names()
	}
	m := AppModel{
		ring:   ring,
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		zones:  opts.Zones,
		themes: themes,
	}
	for i, name := range themes {
		if name == opts.Theme {
			m.themeIdx = i
		}
	}
	return m
}

// Init starts the ring when auto-start is enabled.
func (m AppModel) Init() tea.Cmd {
	if m.opts.AutoStart {
		return StartCmd
	}
	return nil
}

// Update handles one message.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case TaskEvent:
		if msg.Run == nil {
			return m, nil
		}
		return m, m.observe(msg.Run)

	case StartEvent:
		return m, m.start()

	case ThemeChangeEvent:
		if err := m.applyTheme(msg.Theme); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case tea.MouseMsg:
		if m.clickedRing(msg) {
			return m, m.start()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.ring == nil {
		return m, nil
	}
	return m, m.ring.Update(msg)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.ring != nil {
			m.ring.Stop()
		}
		return *m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return *m, nil
	}

	if m.ring == nil {
		return *m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		return *m, m.start()

	case key.Matches(msg, m.keys.Stop):
		if m.ring.State() == countdown.StateRunning {
			m.ring.Stop()
			m.status = "stopped"
		}
		return *m, nil

	case key.Matches(msg, m.keys.Reset):
		m.ring.Stop()
		if err := m.ring.Reset(); err != nil {
			m.status = err.Error()
		} else {
			m.status = ""
		}
		return *m, nil

	case key.Matches(msg, m.keys.Theme):
		m.CycleThemeForward()
		return *m, nil

	case key.Matches(msg, m.keys.ThemeBack):
		m.CycleThemeBackward()
		return *m, nil
	}

	return *m, m.ring.HandleKey(msg)
}

// start runs the ring, resetting it first if a previous run has ended.
func (m *AppModel) start() tea.Cmd {
	if m.ring == nil {
		return nil
	}
	if m.ring.State().Terminal() {
		if err := m.ring.Reset(); err != nil {
			m.status = err.Error()
			return nil
		}
	}

	var err error
	cmd := m.observe(func() { err = m.ring.Start() })
	switch {
	case errors.Is(err, countdown.ErrAlreadyRunning):
		m.status = "already running"
	case err != nil:
		m.status = err.Error()
	case m.ring.State() == countdown.StateRunning:
		m.status = ""
	}
	return cmd
}

// observe runs fn and returns the finish command if fn moved the ring into
// StateFinished.
func (m *AppModel) observe(fn func()) tea.Cmd {
	if m.ring == nil {
		fn()
		return nil
	}
	before := m.ring.State()
	fn()
	if before == countdown.StateFinished || m.ring.State() != countdown.StateFinished {
		return nil
	}

	m.status = "done"
	if m.opts.ExitOnFinish {
		return QuitAfter(m.opts.ExitDelay)
	}
	return nil
}

func (m AppModel) clickedRing(msg tea.MouseMsg) bool {
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return false
	}
	z := m.zones.Get(ringZoneID)
	return z != nil && z.InBounds(msg)
}

// View renders the ring above a one-line status bar.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	statusH := 1
	if m.help.ShowAll {
		statusH = len(m.keys.FullHelp()[0])
	}
	bodyH := max(m.height-statusH, 1)

	body := ""
	if m.ring != nil {
		body = m.ring.View(m.width, bodyH)
	}
	if m.zones != nil {
		body = m.zones.Mark(ringZoneID, body)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
	if m.zones != nil {
		return m.zones.Scan(out)
	}
	return out
}

// statusBar renders the ring state, the last status message and the key
// help, truncated to the terminal width.
func (m AppModel) statusBar() string {
	t := theme.Current
	state := ""
	if m.ring != nil {
		st := m.ring.Snapshot()
		state = fmt.Sprintf("%s %s", m.ring.State(), st.Label)
	}
	if m.status != "" {
		state += "  " + m.status
	}

	left := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Render(state)
	right := m.help.View(m.keys)
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	if m.width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.width, "")
}

// Width returns the terminal width from the last WindowSizeMsg.
func (m AppModel) Width() int { return m.width }

// Height returns the terminal height from the last WindowSizeMsg.
func (m AppModel) Height() int { return m.height }

// Quitting reports whether the model is shutting down.
func (m AppModel) Quitting() bool { return m.quitting }

// HelpVisible reports whether the full help is shown.
func (m AppModel) HelpVisible() bool { return m.help.ShowAll }

// Status returns the last status message.
func (m AppModel) Status() string { return m.status }
