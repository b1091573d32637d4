package image

import (
	"math"

	"gitlab.com/tinyland/lab/ringdown/pkg/terminal"
)

// imgCellsFor returns the cell grid needed to show an imgW × imgH pixel
// image at native resolution, shrunk to fit maxCols × maxRows with the
// aspect ratio kept.
func imgCellsFor(imgW, imgH, cellW, cellH, maxCols, maxRows int) (cols, rows int) {
	if imgW <= 0 || imgH <= 0 {
		return 1, 1
	}
	if cellW <= 0 {
		cellW = terminal.DefaultCellW
	}
	if cellH <= 0 {
		cellH = terminal.DefaultCellH
	}
	maxCols = max(maxCols, 1)
	maxRows = max(maxRows, 1)

	cols = int(math.Ceil(float64(imgW) / float64(cellW)))
	rows = int(math.Ceil(float64(imgH) / float64(cellH)))
	if cols <= maxCols && rows <= maxRows {
		return cols, rows
	}

	aspect := float64(imgW) / float64(imgH)
	cols = maxCols
	rows = max(1, int(math.Round(float64(cols*cellW)/aspect/float64(cellH))))
	if rows > maxRows {
		rows = maxRows
		cols = max(1, int(math.Round(float64(rows*cellH)*aspect/float64(cellW))))
	}
	return min(cols, maxCols), min(rows, maxRows)
}
