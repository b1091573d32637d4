package surface

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	xdraw "golang.org/x/image/draw"

	"gitlab.com/tinyland/lab/ringdown/pkg/geometry"
)

// rasterFace is the bitmap font used for labels; it is scaled to the
// requested size.
var rasterFace = basicfont.Face7x13

// Raster is a Surface backed by an in-memory RGBA image. Drawing happens
// at supersample× resolution and Image downsamples, which smooths the
// circle edges.
type Raster struct {
	width, height int
	ss            int
	canvas        *image.RGBA
}

// NewRaster creates a transparent width × height raster. supersample < 1 is
// treated as 1.
func NewRaster(width, height, supersample int) *Raster {
	if supersample < 1 {
		supersample = 1
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{
		width:  width,
		height: height,
		ss:     supersample,
		canvas: image.NewRGBA(image.Rect(0, 0, width*supersample, height*supersample)),
	}
}

// Bounds returns the output size in pixels.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// DrawCircle fills every pixel whose centre lies inside the circle.
func (r *Raster) DrawCircle(center geometry.Point, radius float64, c color.Color) {
	if !(radius > 0) {
		return
	}
	cx, cy, rad := r.scaled(center.X), r.scaled(center.Y), r.scaled(radius)
	src := image.NewUniform(c)
	r.eachPixel(cx-rad, cy-rad, cx+rad, cy+rad, func(x, y int, px, py float64) {
		dx, dy := px-cx, py-cy
		if dx*dx+dy*dy <= rad*rad {
			r.blend(x, y, src)
		}
	})
}

// DrawArc strokes the arc of the circle inscribed in bounds, sweeping
// clockwise from startAngle. A sweep of 360 or more draws the full ring.
func (r *Raster) DrawArc(bounds geometry.Rect, startAngle, sweepAngle float64, c color.Color, strokeWidth float64) {
	if !(sweepAngle > 0) || !(strokeWidth > 0) {
		return
	}
	center := bounds.Center()
	cx, cy := r.scaled(center.X), r.scaled(center.Y)
	ringR := r.scaled(math.Min(bounds.Width(), bounds.Height()) / 2)
	half := r.scaled(strokeWidth) / 2
	outer := ringR + half
	full := sweepAngle >= 360
	start := normalizeAngle(startAngle)
	src := image.NewUniform(c)

	r.eachPixel(cx-outer, cy-outer, cx+outer, cy+outer, func(x, y int, px, py float64) {
		dx, dy := px-cx, py-cy
		d := math.Hypot(dx, dy)
		if math.Abs(d-ringR) > half {
			return
		}
		if !full {
			// Screen y grows downwards, so atan2 already runs clockwise.
			ang := normalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi)
			if normalizeAngle(ang-start) > sweepAngle {
				return
			}
		}
		r.blend(x, y, src)
	})
}

// DrawText renders s with the built-in bitmap face, scaled so its line
// height equals size, centred on pos.
func (r *Raster) DrawText(pos geometry.Point, s string, c color.Color, size float64) {
	if s == "" || !(size > 0) {
		return
	}
	metrics := rasterFace.Metrics()
	lineH := (metrics.Ascent + metrics.Descent).Ceil()
	textW := font.MeasureString(rasterFace, s).Ceil()
	if textW <= 0 || lineH <= 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, textW, lineH))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: rasterFace,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(s)

	scale := r.scaled(size) / float64(lineH)
	w := int(math.Round(float64(textW) * scale))
	h := int(math.Round(float64(lineH) * scale))
	if w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Round(r.scaled(pos.X) - float64(w)/2))
	y0 := int(math.Round(r.scaled(pos.Y) - float64(h)/2))
	dst := image.Rect(x0, y0, x0+w, y0+h)
	xdraw.NearestNeighbor.Scale(r.canvas, dst, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

// Image returns the frame at output resolution.
func (r *Raster) Image() image.Image {
	if r.ss == 1 || r.width == 0 || r.height == 0 {
		return r.canvas
	}
	return imaging.Resize(r.canvas, r.width, r.height, imaging.Lanczos)
}

// EncodePNG writes the frame as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, r.Image(), imaging.PNG)
}

// SavePNG writes the frame to a PNG file.
func (r *Raster) SavePNG(path string) error {
	return imaging.Save(r.Image(), path)
}

func (r *Raster) scaled(v float64) float64 {
	return v * float64(r.ss)
}

// eachPixel visits canvas pixels intersecting the given box, passing pixel
// indices and pixel-centre coordinates.
func (r *Raster) eachPixel(minX, minY, maxX, maxY float64, fn func(x, y int, px, py float64)) {
	b := r.canvas.Bounds()
	x0 := clampInt(int(math.Floor(minX)), b.Min.X, b.Max.X)
	y0 := clampInt(int(math.Floor(minY)), b.Min.Y, b.Max.Y)
	x1 := clampInt(int(math.Ceil(maxX)), b.Min.X, b.Max.X)
	y1 := clampInt(int(math.Ceil(maxY)), b.Min.Y, b.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			fn(x, y, float64(x)+0.5, float64(y)+0.5)
		}
	}
}

func (r *Raster) blend(x, y int, src *image.Uniform) {
	draw.Draw(r.canvas, image.Rect(x, y, x+1, y+1), src, image.Point{}, draw.Over)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
