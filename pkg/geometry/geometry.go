// Package geometry computes the layout of the countdown ring: radii, the
// arc bounding box and the label anchor. Everything here is a pure function
// of Config and the widget bounds, in device pixels.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRadius is returned for a zero or negative outer radius.
	ErrInvalidRadius = errors.New("geometry: outer radius must be positive")
	// ErrInvalidThickness is returned for a zero or negative ring thickness.
	ErrInvalidThickness = errors.New("geometry: ring thickness must be positive")
	// ErrInvalidTextSize is returned for a zero or negative label size.
	ErrInvalidTextSize = errors.New("geometry: label text size must be positive")
)

// Config holds the ring dimensions in device pixels.
type Config struct {
	OuterRadius   float64
	RingThickness float64
	LabelSize     float64
}

// Validate rejects dimensions that would produce malformed draw calls.
// A ring thicker than the outer radius is accepted; Compute clamps the
// inner circle to nothing in that case.
func (c Config) Validate() error {
	if !(c.OuterRadius > 0) || math.IsInf(c.OuterRadius, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRadius, c.OuterRadius)
	}
	if !(c.RingThickness > 0) || math.IsInf(c.RingThickness, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThickness, c.RingThickness)
	}
	if !(c.LabelSize > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTextSize, c.LabelSize)
	}
	return nil
}

// Interval is the gap between the ring and the circles on either side.
func (c Config) Interval() float64 {
	return c.RingThickness / 4
}

// InnerRadius is the radius of the inner filled circle, never negative.
func (c Config) InnerRadius() float64 {
	r := c.OuterRadius - c.RingThickness - 2*c.Interval()
	if r < 0 {
		return 0
	}
	return r
}

// Point is a position in device pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in device pixels.
type Rect struct {
	Min, Max Point
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Layout is the resolved geometry for one widget size.
type Layout struct {
	Width, Height float64
	Center        Point
	OuterRadius   float64
	InnerRadius   float64
	Interval      float64
	RingThickness float64
	// RingRect bounds the circle the arc stroke is centred on.
	RingRect Rect
	// LabelAnchor is where the label is drawn, centred on both axes.
	LabelAnchor Point
	LabelSize   float64
}

// RingRadius is the radius of the arc's stroke centre line.
func (l Layout) RingRadius() float64 {
	return l.RingRect.Width() / 2
}

// Compute lays the ring out inside a width × height area. The ring is
// centred in the area; it is not scaled to fit, so a small area clips it.
func Compute(c Config, width, height float64) Layout {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	center := Point{X: width / 2, Y: height / 2}
	interval := c.Interval()
	inner := c.InnerRadius()
	half := inner + interval + c.RingThickness/2

	return Layout{
		Width:         width,
		Height:        height,
		Center:        center,
		OuterRadius:   c.OuterRadius,
		InnerRadius:   inner,
		Interval:      interval,
		RingThickness: c.RingThickness,
		RingRect: Rect{
			Min: Point{X: center.X - half, Y: center.Y - half},
			Max: Point{X: center.X + half, Y: center.Y + half},
		},
		LabelAnchor: center,
		LabelSize:   c.LabelSize,
	}
}

// PreferredSize is the side length a wrap-content host should give the
// widget: the outer circle's diameter, rounded up to whole pixels.
func PreferredSize(c Config) int {
	return int(math.Ceil(2 * c.OuterRadius))
}
