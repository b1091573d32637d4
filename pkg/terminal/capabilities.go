package terminal

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Capabilities summarises the current session.
type Capabilities struct {
	Term        Terminal
	Protocol    GraphicsProtocol
	Size        Size
	Profile     termenv.Profile
	TrueColor   bool
	SSH         bool
	Mux         bool // inside tmux or screen
	Interactive bool // stdout is a terminal
}

var (
	cached     *Capabilities
	detectOnce sync.Once
)

// DetectCapabilities runs detection once per process and caches it.
func DetectCapabilities() *Capabilities {
	detectOnce.Do(func() {
		cached = detect()
	})
	return cached
}

func detect() *Capabilities {
	term := Detect()
	profile := termenv.EnvColorProfile()

	trueColor := profile == termenv.TrueColor || term.SupportsTrueColor()
	if !trueColor {
		ct := os.Getenv("COLORTERM")
		trueColor = ct == "truecolor" || ct == "24bit"
	}

	fd := os.Stdout.Fd()
	return &Capabilities{
		Term:        term,
		Protocol:    SelectProtocol(term),
		Size:        GetSize(),
		Profile:     profile,
		TrueColor:   trueColor,
		SSH:         isSSH(),
		Mux:         os.Getenv("TMUX") != "" || os.Getenv("STY") != "",
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// WithProtocol returns a copy with the protocol chosen by override, or by
// detection when override is empty or "auto". Non-interactive sessions
// always get ProtocolNone.
func (c Capabilities) WithProtocol(override string) Capabilities {
	c.Protocol = SelectProtocolWithOverride(c.Term, override)
	if !c.Interactive {
		c.Protocol = ProtocolNone
	}
	return c
}
