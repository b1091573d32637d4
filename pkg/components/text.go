package components

import "github.com/charmbracelet/x/ansi"

// VisibleLen returns the visible character width of s in terminal cells.
// ANSI escape sequences are ignored and wide characters count as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate truncates s to at most maxWidth visible characters, keeping
// escape sequences before the cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, "")
}

// Splice replaces the cells of line starting at column col with overlay,
// keeping the styled cells on either side. The overlay is clipped at the
// end of the line.
func Splice(line, overlay string, col int) string {
	lineW := VisibleLen(line)
	if col < 0 || col >= lineW {
		return line
	}
	overlay = Truncate(overlay, lineW-col)
	end := col + VisibleLen(overlay)

	left := ansi.Truncate(line, col, "")
	right := ansi.TruncateLeft(line, end, "")
	return left + Reset() + overlay + Reset() + right
}
