package surface

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"gitlab.com/tinyland/lab/ringdown/pkg/countdown"
	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
	"gitlab.com/tinyland/lab/ringdown/pkg/theme"
)

var (
	testOuter = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	testInner = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	testRing  = color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	testLabel = color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}

	testPalette = Palette{Outer: testOuter, Inner: testInner, Ring: testRing, Label: testLabel}
	refConfig   = geometry.Config{OuterRadius: 100, RingThickness: 20, LabelSize: 24}
)

func TestPaintOrder(t *testing.T) {
	l := geometry.Compute(refConfig, 200, 200)
	st := countdown.Project(65, 100)

	var rec Recorder
	Paint(&rec, l, st, testPalette)

	if len(rec.Ops) != 4 {
		t.Fatalf("expected 4 draw calls, got %d", len(rec.Ops))
	}
	want := []OpKind{OpCircle, OpCircle, OpArc, OpText}
	for i, k := range want {
		if rec.Ops[i].Kind != k {
			t.Errorf("op %d: expected %s, got %s", i, k, rec.Ops[i].Kind)
		}
	}

	outer, inner, arc, text := rec.Ops[0], rec.Ops[1], rec.Ops[2], rec.Ops[3]
	if outer.Radius != 100 || outer.Color != testOuter {
		t.Errorf("outer circle: %+v", outer)
	}
	if inner.Radius != 70 || inner.Color != testInner {
		t.Errorf("inner circle: %+v", inner)
	}
	if arc.StartAngle != 270 || arc.SweepAngle != 234 || arc.StrokeWidth != 20 || arc.Color != testRing {
		t.Errorf("arc: %+v", arc)
	}
	if arc.Bounds != l.RingRect {
		t.Errorf("arc bounds %+v, want %+v", arc.Bounds, l.RingRect)
	}
	if text.Text != "1:5" || text.Size != 24 || text.Center != l.Center || text.Color != testLabel {
		t.Errorf("label: %+v", text)
	}
}

func TestPaintFinishedDrawsEmptyArc(t *testing.T) {
	var rec Recorder
	Paint(&rec, geometry.Compute(refConfig, 200, 200), countdown.Project(0, 10), testPalette)
	if rec.Ops[2].SweepAngle != 0 {
		t.Errorf("expected empty sweep, got %v", rec.Ops[2].SweepAngle)
	}
	if rec.Ops[3].Text != "0:0" {
		t.Errorf("expected label 0:0, got %q", rec.Ops[3].Text)
	}
	rec.Reset()
	if len(rec.Ops) != 0 {
		t.Error("Reset should drop recorded ops")
	}
}

func TestPaintRingSkipsLabel(t *testing.T) {
	var rec Recorder
	PaintRing(&rec, geometry.Compute(refConfig, 200, 200), countdown.Project(3, 3), testPalette)
	if len(rec.Ops) != 3 {
		t.Fatalf("expected 3 draw calls, got %d", len(rec.Ops))
	}
	for _, op := range rec.Ops {
		if op.Kind == OpText {
			t.Error("PaintRing must not draw the label")
		}
	}
	if rec.Ops[2].SweepAngle != 360 {
		t.Errorf("full countdown should sweep 360, got %v", rec.Ops[2].SweepAngle)
	}
}

func TestPaletteFromTheme(t *testing.T) {
	p, err := PaletteFromTheme(theme.Get("default"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Ring != testRing || p.Label != testRing {
		t.Errorf("default ring/label should be green, got %v / %v", p.Ring, p.Label)
	}
	if p.Outer != testOuter || p.Inner != testInner {
		t.Errorf("default outer/inner should be grey/white, got %v / %v", p.Outer, p.Inner)
	}
}

func TestPaletteFromThemeRejectsBadColor(t *testing.T) {
	th := theme.Get("default")
	th.RingStroke = "lime"
	if _, err := PaletteFromTheme(th); !errors.Is(err, theme.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

// --- Raster ---

func rasterAt(t *testing.T, r *Raster, x, y int) color.RGBA {
	t.Helper()
	return color.RGBAModel.Convert(r.Image().At(x, y)).(color.RGBA)
}

func paintRaster(remaining, total int) *Raster {
	r := NewRaster(200, 200, 1)
	Paint(r, geometry.Compute(refConfig, 200, 200), countdown.Project(remaining, total), testPalette)
	return r
}

func TestRasterFullRing(t *testing.T) {
	r := paintRaster(10, 10)

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"inner disc", 100, 60, testInner},
		{"ring top", 100, 15, testRing},
		{"ring right", 185, 100, testRing},
		{"ring left", 15, 100, testRing},
		{"gap outside ring", 100, 2, testOuter},
		{"gap inside ring", 100, 27, testOuter},
		{"corner", 1, 1, color.RGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rasterAt(t, r, tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRasterPartialSweep(t *testing.T) {
	// 3/4 remaining: the arc runs clockwise from the top round to 9 o'clock,
	// leaving the upper-left quadrant empty.
	r := paintRaster(3, 4)

	if got := rasterAt(t, r, 185, 100); got != testRing {
		t.Errorf("3 o'clock should be stroked, got %v", got)
	}
	if got := rasterAt(t, r, 100, 185); got != testRing {
		t.Errorf("6 o'clock should be stroked, got %v", got)
	}
	if got := rasterAt(t, r, 40, 40); got != testOuter {
		t.Errorf("upper-left quadrant should be unstroked, got %v", got)
	}
}

func TestRasterEmptySweep(t *testing.T) {
	r := paintRaster(0, 4)
	for _, p := range [][2]int{{100, 15}, {185, 100}, {15, 100}} {
		if got := rasterAt(t, r, p[0], p[1]); got != testOuter {
			t.Errorf("pixel %v should show the outer disc, got %v", p, got)
		}
	}
}

func TestRasterDrawsLabel(t *testing.T) {
	r := NewRaster(80, 40, 1)
	r.DrawCircle(geometry.Point{X: 40, Y: 20}, 50, testInner)
	r.DrawText(geometry.Point{X: 40, Y: 20}, "8:8", testLabel, 26)

	found := false
	img := r.Image()
	for y := 0; y < 40 && !found; y++ {
		for x := 0; x < 80; x++ {
			if color.RGBAModel.Convert(img.At(x, y)).(color.RGBA) == testLabel {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no label pixels drawn")
	}
	if got := rasterAt(t, r, 1, 1); got != testInner {
		t.Errorf("label should stay centred, corner = %v", got)
	}
}

func TestRasterSupersampledPNG(t *testing.T) {
	r := NewRaster(64, 48, 3)
	Paint(r, geometry.Compute(geometry.Config{OuterRadius: 20, RingThickness: 6, LabelSize: 8}, 64, 48),
		countdown.Project(1, 2), testPalette)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("expected 64x48 output, got %v", b)
	}
}

func TestNewRasterClampsArguments(t *testing.T) {
	r := NewRaster(-1, 10, 0)
	if b := r.Bounds(); b.Dx() != 0 || b.Dy() != 10 {
		t.Errorf("unexpected bounds %v", b)
	}
	// Drawing into an empty raster must not panic.
	r.DrawCircle(geometry.Point{X: 5, Y: 5}, 3, testOuter)
	r.DrawArc(geometry.Rect{Max: geometry.Point{X: 10, Y: 10}}, 270, 90, testRing, 2)
}
