// Package widgets provides the countdown ring widget for the ringdown TUI.
// The widget implements app.Ring and receives ticks through the
// Elm-architecture Update loop.
package widgets

// Fallback colors used when the ring cannot be rasterised.
const (
	// ColorDim is used for de-emphasised text such as the compact caption.
	ColorDim = "#9CA3AF"

	// ColorError is used for render error text.
	ColorError = "#EF4444"
)

// Default ring dimensions, matching the medium preset.
const (
	DefaultRadiusDp        = 100.0
	DefaultRingThicknessDp = 20.0
	DefaultLabelTextSizeSp = 24.0
)
