package surface

import (
	"image/color"

	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
)

// OpKind names a recorded draw call.
type OpKind string

const (
	OpCircle OpKind = "circle"
	OpArc    OpKind = "arc"
	OpText   OpKind = "text"
)

// Op is one recorded draw call. Only the fields relevant to Kind are set.
type Op struct {
	Kind        OpKind
	Center      geometry.Point
	Radius      float64
	Bounds      geometry.Rect
	StartAngle  float64
	SweepAngle  float64
	StrokeWidth float64
	Text        string
	Size        float64
	Color       color.Color
}

// Recorder is a Surface that remembers every call.
type Recorder struct {
	Ops []Op
}

// DrawCircle records a circle.
func (r *Recorder) DrawCircle(center geometry.Point, radius float64, c color.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Center: center, Radius: radius, Color: c})
}

// DrawArc records an arc.
func (r *Recorder) DrawArc(bounds geometry.Rect, startAngle, sweepAngle float64, c color.Color, strokeWidth float64) {
	r.Ops = append(r.Ops, Op{
		Kind:        OpArc,
		Bounds:      bounds,
		StartAngle:  startAngle,
		SweepAngle:  sweepAngle,
		StrokeWidth: strokeWidth,
		Color:       c,
	})
}

// DrawText records a label.
func (r *Recorder) DrawText(pos geometry.Point, s string, c color.Color, size float64) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Center: pos, Text: s, Size: size, Color: c})
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
