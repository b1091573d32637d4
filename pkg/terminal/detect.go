// Package terminal works out what the ring can be drawn with: which
// emulator is running, which inline image protocol it speaks, how large it
// is in cells and pixels, and how many colours it renders.
//
// Detection only inspects the environment and ioctls; it never writes
// query sequences to the terminal.
package terminal

import (
	"os"
	"strings"
)

// Terminal identifies the terminal emulator in use.
type Terminal int

const (
	TermUnknown   Terminal = iota
	TermGhostty            // kitty graphics, true color
	TermKitty              // kitty graphics, true color
	TermWezTerm            // kitty graphics, sixel, iterm2 images
	TermITerm2             // iterm2 images, true color
	TermAlacritty          // true color, no image protocol
	TermTilix              // VTE
	TermGNOME              // VTE
	TermTmux
	TermScreen
	TermVSCode
	TermEmacs
	TermGeneric
)

var terminalNames = [...]string{
	TermUnknown:   "unknown",
	TermGhostty:   "ghostty",
	TermKitty:     "kitty",
	TermWezTerm:   "wezterm",
	TermITerm2:    "iterm2",
	TermAlacritty: "alacritty",
	TermTilix:     "tilix",
	TermGNOME:     "gnome-terminal",
	TermTmux:      "tmux",
	TermScreen:    "screen",
	TermVSCode:    "vscode",
	TermEmacs:     "emacs",
	TermGeneric:   "generic",
}

// String returns the lowercase emulator name.
func (t Terminal) String() string {
	if t >= 0 && int(t) < len(terminalNames) {
		return terminalNames[t]
	}
	return "unknown"
}

// SupportsKittyGraphics reports whether the terminal speaks the Kitty
// graphics protocol.
func (t Terminal) SupportsKittyGraphics() bool {
	return t == TermGhostty || t == TermKitty || t == TermWezTerm
}

// SupportsSixel reports whether the terminal speaks Sixel.
func (t Terminal) SupportsSixel() bool {
	return t == TermWezTerm
}

// SupportsITerm2Images reports whether the terminal speaks the iTerm2
// inline image protocol.
func (t Terminal) SupportsITerm2Images() bool {
	return t == TermITerm2 || t == TermWezTerm
}

// SupportsTrueColor reports whether the emulator is known to render 24-bit
// colour regardless of what COLORTERM says.
func (t Terminal) SupportsTrueColor() bool {
	switch t {
	case TermGhostty, TermKitty, TermWezTerm, TermITerm2,
		TermAlacritty, TermTilix, TermGNOME, TermVSCode:
		return true
	}
	return false
}

var termPrograms = map[string]Terminal{
	"ghostty":   TermGhostty,
	"kitty":     TermKitty,
	"wezterm":   TermWezTerm,
	"iterm.app": TermITerm2,
	"vscode":    TermVSCode,
	"alacritty": TermAlacritty,
	"tmux":      TermTmux,
}

// markerVars are set by exactly one emulator each.
var markerVars = []struct {
	name string
	term Terminal
}{
	{"KITTY_WINDOW_ID", TermKitty},
	{"ITERM_SESSION_ID", TermITerm2},
	{"WEZTERM_EXECUTABLE", TermWezTerm},
}

// Detect identifies the terminal emulator from the process environment.
func Detect() Terminal {
	return detectFrom(os.Getenv)
}

// detectFrom checks TERM_PROGRAM first, then TERM, then emulator-specific
// variables. Multiplexers come last so a visible outer emulator wins.
func detectFrom(getenv func(string) string) Terminal {
	if t, ok := termPrograms[strings.ToLower(getenv("TERM_PROGRAM"))]; ok {
		return t
	}

	switch term := getenv("TERM"); {
	case term == "xterm-ghostty":
		return TermGhostty
	case term == "xterm-kitty":
		return TermKitty
	case strings.HasPrefix(term, "alacritty"):
		return TermAlacritty
	case strings.HasPrefix(term, "screen") && getenv("STY") != "":
		return TermScreen
	}

	for _, m := range markerVars {
		if getenv(m.name) != "" {
			return m.term
		}
	}

	if getenv("VTE_VERSION") != "" {
		if getenv("TILIX_ID") != "" {
			return TermTilix
		}
		return TermGNOME
	}
	if getenv("INSIDE_EMACS") != "" {
		return TermEmacs
	}
	if getenv("TMUX") != "" {
		return TermTmux
	}
	if getenv("STY") != "" {
		return TermScreen
	}
	// iTerm2 forwards LC_TERMINAL over ssh.
	if getenv("LC_TERMINAL") == "iTerm2" {
		return TermITerm2
	}
	return TermGeneric
}
