// Package components provides small ANSI text primitives for the compact
// countdown view: truecolor escapes, a draining bar gauge and
// width-aware padding and splicing.
package components

import (
	"fmt"

	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// Color produces an ANSI true-color (24-bit) foreground escape sequence from
// a hex color string like "#ff5500". Returns an empty string if the input is
// empty or malformed.
func Color(hex string) string {
	c, err := theme.ParseColor(hex)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
}

// BgColor produces an ANSI true-color (24-bit) background escape sequence.
func BgColor(hex string) string {
	c, err := theme.ParseColor(hex)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
}

// Bold wraps s in ANSI bold escape sequences.
func Bold(s string) string {
	return "\x1b[1m" + s + "\x1b[22m"
}

// Reset returns the ANSI reset sequence that clears all styling.
func Reset() string {
	return "\x1b[0m"
}
