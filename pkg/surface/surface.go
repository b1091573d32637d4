// Package surface defines the drawing seam between the ring widget and a
// host renderer, the paint routine that feeds it, and two implementations:
// a Recorder for tests and an in-memory Raster.
package surface

import (
	"fmt"
	"image/color"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

// Surface receives draw calls in device pixels. Angles are in degrees,
// 0° at 3 o'clock, increasing clockwise.
type Surface interface {
	// DrawCircle fills a circle.
	DrawCircle(center geometry.Point, radius float64, c color.Color)
	// DrawArc strokes part of the circle inscribed in bounds.
	DrawArc(bounds geometry.Rect, startAngle, sweepAngle float64, c color.Color, strokeWidth float64)
	// DrawText draws s centred on pos on both axes.
	DrawText(pos geometry.Point, s string, c color.Color, size float64)
}

// Palette holds the four ring colours.
type Palette struct {
	Outer color.Color
	Inner color.Color
	Ring  color.Color
	Label color.Color
}

// PaletteFromTheme resolves a theme's hex colours.
func PaletteFromTheme(t theme.Theme) (Palette, error) {
	var p Palette
	for _, f := range []struct {
		dst *color.Color
		hex string
	}{
		{&p.Outer, t.OuterFill},
		{&p.Inner, t.InnerFill},
		{&p.Ring, t.RingStroke},
		{&p.Label, t.Label},
	} {
		c, err := theme.ParseColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette %q: %w", t.Name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// Paint draws one frame: outer disc, inner disc, progress arc, label.
func Paint(s Surface, l geometry.Layout, st countdown.RenderState, p Palette) {
	PaintRing(s, l, st, p)
	s.DrawText(l.LabelAnchor, st.Label, p.Label, l.LabelSize)
}

// PaintRing draws everything except the label, for hosts that place text
// themselves.
func PaintRing(s Surface, l geometry.Layout, st countdown.RenderState, p Palette) {
	s.DrawCircle(l.Center, l.OuterRadius, p.Outer)
	s.DrawCircle(l.Center, l.InnerRadius, p.Inner)
	s.DrawArc(l.RingRect, st.StartAngle, st.SweepAngle, p.Ring, l.RingThickness)
}
