package components

import (
	"math"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var gaugeBlocks = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// GaugeStyle configures a draining bar. Thresholds are fractions of the
// bar still filled; the fill colour switches once the bar drops below them.
type GaugeStyle struct {
	FilledColor   string  // default "#4CAF50"
	EmptyColor    string  // default "#333333"
	WarningBelow  float64 // 0 disables
	CriticalBelow float64 // 0 disables
	WarningColor  string  // default "#FF9800"
	CriticalColor string  // default "#F44336"
}

// DefaultGaugeStyle returns the countdown bar defaults.
func DefaultGaugeStyle() GaugeStyle {
	return GaugeStyle{
		FilledColor:   "#4CAF50",
		EmptyColor:    "#333333",
		WarningBelow:  0.3,
		CriticalBelow: 0.1,
		WarningColor:  "#FF9800",
		CriticalColor: "#F44336",
	}
}

// Gauge renders a horizontal bar with eighth-cell precision.
type Gauge struct {
	style GaugeStyle
}

// NewGauge creates a Gauge with the given style.
func NewGauge(style GaugeStyle) *Gauge {
	return &Gauge{style: style}
}

// Render draws the bar width cells wide, filled to ratio (clamped to
// [0, 1]). A zero ratio is an empty bar, not a critical one.
func (g *Gauge) Render(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return gaugeRenderBar(ratio, width, g.fillColor(ratio), orDefault(g.style.EmptyColor, "#333333"))
}

func (g *Gauge) fillColor(ratio float64) string {
	switch {
	case ratio > 0 && ratio < g.style.CriticalBelow:
		return orDefault(g.style.CriticalColor, "#F44336")
	case ratio > 0 && ratio < g.style.WarningBelow:
		return orDefault(g.style.WarningColor, "#FF9800")
	default:
		return orDefault(g.style.FilledColor, "#4CAF50")
	}
}

// gaugeRenderBar builds the ANSI-colored bar string with sub-cell precision.
func gaugeRenderBar(ratio float64, width int, fillColor, emptyColor string) string {
	totalUnits := width * 8
	filledUnits := min(max(int(math.Round(ratio*float64(totalUnits))), 0), totalUnits)

	fullCells := filledUnits / 8
	partialEighths := filledUnits % 8
	emptyCells := width - fullCells
	if partialEighths > 0 {
		emptyCells--
	}

	fg := Color(fillColor)
	bg := BgColor(emptyColor)
	reset := Reset()

	var b strings.Builder
	if fullCells > 0 {
		b.WriteString(fg + bg)
		b.WriteString(strings.Repeat(string(gaugeBlocks[8]), fullCells))
		b.WriteString(reset)
	}
	if partialEighths > 0 {
		b.WriteString(fg + bg)
		b.WriteRune(gaugeBlocks[partialEighths])
		b.WriteString(reset)
	}
	if emptyCells > 0 {
		b.WriteString(bg)
		b.WriteString(strings.Repeat(" ", emptyCells))
		b.WriteString(reset)
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
