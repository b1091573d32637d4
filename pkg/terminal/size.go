package terminal

import (
	"os"
	"strconv"

	xterm "github.com/charmbracelet/x/term"
	"golang.org/x/sys/unix"

	"gitlab.com/tinyland/lab/ringdown/pkg/density"
)

// Fallback cell size used when the terminal does not report pixels.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size is the terminal extent in cells and, when known, pixels.
type Size struct {
	Cols   int
	Rows   int
	PixelW int // 0 if unknown
	PixelH int // 0 if unknown
	CellW  int // 0 if unknown
	CellH  int // 0 if unknown
}

// GetSize queries stdout, then stderr, then COLUMNS/LINES, then 80x24.
func GetSize() Size {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd()} {
		if s := GetSizeFromFd(fd); s.Cols > 0 && s.Rows > 0 {
			return s
		}
	}
	return getSizeFromEnv()
}

// GetSizeFromFd reads the window size of fd. TIOCGWINSZ supplies pixels
// as well as cells; when it fails the portable x/term query is tried for
// cells alone. A zero Size means fd is not a terminal.
func GetSizeFromFd(fd uintptr) Size {
	if s := getSizeFromIoctl(fd); s.Cols > 0 && s.Rows > 0 {
		return s
	}
	if w, h, err := xterm.GetSize(fd); err == nil && w > 0 && h > 0 {
		return Size{Cols: w, Rows: h}
	}
	return Size{}
}

// CellPixels returns the cell size, substituting the defaults for
// dimensions the terminal did not report.
func (s Size) CellPixels() (w, h int) {
	w, h = s.CellW, s.CellH
	if w <= 0 {
		w = DefaultCellW
	}
	if h <= 0 {
		h = DefaultCellH
	}
	return w, h
}

// Density derives dp/sp scaling from the reported cell height.
func (s Size) Density() density.Metrics {
	return density.FromCellSize(s.CellW, s.CellH)
}

func getSizeFromIoctl(fd uintptr) Size {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return Size{}
	}
	s := Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		PixelW: int(ws.Xpixel),
		PixelH: int(ws.Ypixel),
	}
	if s.PixelW > 0 && s.Cols > 0 {
		s.CellW = s.PixelW / s.Cols
	}
	if s.PixelH > 0 && s.Rows > 0 {
		s.CellH = s.PixelH / s.Rows
	}
	return s
}

func getSizeFromEnv() Size {
	return Size{Cols: envInt("COLUMNS", 80), Rows: envInt("LINES", 24)}
}

// envInt reads a positive integer from name, or returns fallback.
func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
