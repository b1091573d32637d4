// Package density converts density-independent units into device pixels.
//
// Widget dimensions are configured in dp (lengths) and sp (text sizes); the
// geometry and drawing code only ever sees pixels. A Converter is the seam
// between the two.
package density

import "math"

// Converter turns dp and sp values into device pixels.
type Converter interface {
	DpToPx(dp float64) float64
	SpToPx(sp float64) float64
}

// BaselineCellHeight is the cell height, in pixels, treated as density 1.0
// when deriving metrics from a terminal.
const BaselineCellHeight = 16

// Metrics is a fixed display density. Density scales dp; ScaledDensity
// scales sp and additionally carries the user's font scale.
type Metrics struct {
	Density       float64
	ScaledDensity float64
}

// Default is the 1:1 mapping.
var Default = Metrics{Density: 1, ScaledDensity: 1}

// Fixed returns metrics with the same factor for dp and sp.
func Fixed(scale float64) Metrics {
	if !(scale > 0) {
		scale = 1
	}
	return Metrics{Density: scale, ScaledDensity: scale}
}

// FromCellSize derives metrics from the pixel height of one terminal cell,
// so rings keep their visual size across font sizes. Unknown (zero) cell
// sizes map to Default.
func FromCellSize(cellW, cellH int) Metrics {
	if cellW <= 0 || cellH <= 0 {
		return Default
	}
	return Fixed(float64(cellH) / BaselineCellHeight)
}

// DpToPx rounds dp × Density to the nearest whole pixel.
func (m Metrics) DpToPx(dp float64) float64 {
	return roundPx(dp * m.density())
}

// SpToPx rounds sp × ScaledDensity to the nearest whole pixel.
func (m Metrics) SpToPx(sp float64) float64 {
	s := m.ScaledDensity
	if !(s > 0) {
		s = m.density()
	}
	return roundPx(sp * s)
}

func (m Metrics) density() float64 {
	if !(m.Density > 0) {
		return 1
	}
	return m.Density
}

// roundPx rounds half away from zero, so 0.5px becomes a visible pixel.
func roundPx(v float64) float64 {
	return math.Floor(math.Abs(v)+0.5) * sign(v)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
