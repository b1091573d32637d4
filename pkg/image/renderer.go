package image

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/blacktop/go-termimg"

	"gitlab.com/tinyland/lab/ringdown/pkg/density"
	"gitlab.com/tinyland/lab/ringdown/pkg/terminal"
)

// ErrDisabled is returned by Render when the protocol is ProtocolNone.
var ErrDisabled = errors.New("image: rendering disabled (protocol=none)")

// Renderer encodes ring frames for one terminal.
type Renderer struct {
	protocol terminal.GraphicsProtocol
	cellW    int
	cellH    int
	cache    *Cache
}

// NewRenderer creates a renderer for the protocol and cell size in caps.
func NewRenderer(caps terminal.Capabilities) *Renderer {
	cw, ch := caps.Size.CellPixels()
	return &Renderer{
		protocol: caps.Protocol,
		cellW:    cw,
		cellH:    ch,
		cache:    NewCache(DefaultCacheEntries),
	}
}

// Protocol returns the active protocol.
func (r *Renderer) Protocol() terminal.GraphicsProtocol {
	return r.protocol
}

// Cache exposes the frame cache.
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// FramePixels is the raster size that exactly fills cols × rows cells.
// Half-block frames use one pixel per column and two per row.
func (r *Renderer) FramePixels(cols, rows int) (w, h int) {
	cols, rows = max(cols, 0), max(rows, 0)
	switch r.protocol {
	case terminal.ProtocolNone:
		return 0, 0
	case terminal.ProtocolHalfblocks:
		return cols, rows * 2
	default:
		return cols * r.cellW, rows * r.cellH
	}
}

// CellsFor returns the cells an image of w × h frame pixels occupies,
// capped at maxCols × maxRows.
func (r *Renderer) CellsFor(w, h, maxCols, maxRows int) (cols, rows int) {
	if r.protocol == terminal.ProtocolHalfblocks {
		return imgCellsFor(w, h, 1, 2, maxCols, maxRows)
	}
	return imgCellsFor(w, h, r.cellW, r.cellH, maxCols, maxRows)
}

// Density returns dp/sp metrics in frame pixels, so a ring keeps roughly
// the same on-screen size whichever protocol draws it. scale is the user's
// density multiplier.
func (r *Renderer) Density(scale float64) density.Metrics {
	if !(scale > 0) {
		scale = 1
	}
	base := float64(r.cellH) / density.BaselineCellHeight
	if r.protocol == terminal.ProtocolHalfblocks {
		// One half-block pixel spans a whole cell width.
		base /= float64(r.cellW)
	}
	return density.Fixed(scale * base)
}

// Render encodes img for a cols × rows area. Results are cached by content.
func (r *Renderer) Render(img image.Image, cols, rows int) (string, error) {
	if img == nil {
		return "", errors.New("image: nil frame")
	}
	if r.protocol == terminal.ProtocolNone {
		return "", ErrDisabled
	}

	key := CacheKey{Protocol: r.protocol.String(), Cols: cols, Rows: rows, Hash: HashImage(img)}
	if s, ok := r.cache.Get(key); ok {
		return s, nil
	}

	out, err := r.encode(img, cols, rows)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", r.protocol, err)
	}
	r.cache.Put(key, out)
	return out, nil
}

func (r *Renderer) encode(img image.Image, cols, rows int) (string, error) {
	switch r.protocol {
	case terminal.ProtocolKitty:
		return renderTermimg(img, termimg.Kitty, cols, rows)
	case terminal.ProtocolITerm2:
		return renderTermimg(img, termimg.ITerm2, cols, rows)
	case terminal.ProtocolSixel:
		return renderTermimg(img, termimg.Sixel, cols, rows)
	default:
		w, h := r.FramePixels(cols, rows)
		return RenderHalfblocks(ResizeToFit(img, w, h)), nil
	}
}

func renderTermimg(img image.Image, proto termimg.Protocol, cols, rows int) (string, error) {
	ti := termimg.New(img)
	if ti == nil {
		return "", errors.New("go-termimg: failed to wrap image")
	}
	ti.Protocol(proto).Size(cols, rows).Scale(termimg.ScaleFit)
	return ti.Render()
}

// RenderHalfblocks encodes img as lines of ▀/▄ cells with 24-bit colour:
// the upper pixel of each pair is the foreground, the lower one the
// background. Fully transparent pixels show the terminal background.
func RenderHalfblocks(img image.Image) string {
	nrgba := ImageToNRGBA(img)
	b := nrgba.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(b.Dx() * ((b.Dy() + 1) / 2) * 32)

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteString("\x1b[0m\n")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := nrgba.NRGBAAt(x, y)
			var bot color.NRGBA
			if y+1 < b.Max.Y {
				bot = nrgba.NRGBAAt(x, y+1)
			}

			switch {
			case top.A == 0 && bot.A == 0:
				sb.WriteString("\x1b[0m ")
			case top.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▄", bot.R, bot.G, bot.B)
			case bot.A == 0:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[49m▀", top.R, top.G, top.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bot.R, bot.G, bot.B)
			}
		}
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}
