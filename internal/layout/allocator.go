// Package layout implements the dashboard grid model: panel placement in the
// fixed-column grid, refresh interval encoding, relative time resolution and
// the default series palette.
package layout

import "github.com/waterwatch/dashboard/internal/models"

// GridColumns is the width of the dashboard grid in cells.
const GridColumns = 12

// Default size of a newly added panel.
const (
	DefaultPanelWidth  = 6
	DefaultPanelHeight = 4
)

// Allocate computes a free rectangle of the requested size among the
// existing panel rectangles, scanning row-major (top-most, then left-most)
// and returning the first candidate that overlaps nothing. When no gap
// exists above the occupied region, the rectangle is placed on the first
// fully free row below all existing content. The scan is deterministic:
// the same inputs always produce the same rectangle.
func Allocate(existing []models.GridPos, cols, w, h int) models.GridPos {
	if cols <= 0 {
		cols = GridColumns
	}
	if w <= 0 {
		w = DefaultPanelWidth
	}
	if w > cols {
		w = cols
	}
	if h <= 0 {
		h = DefaultPanelHeight
	}

	maxY := 0
	for _, p := range existing {
		if p.Y+p.H > maxY {
			maxY = p.Y + p.H
		}
	}

	for y := 0; y <= maxY; y++ {
		for x := 0; x <= cols-w; x++ {
			candidate := models.GridPos{X: x, Y: y, W: w, H: h}
			free := true
			for _, p := range existing {
				if candidate.Overlaps(p) {
					free = false
					break
				}
			}
			if free {
				return candidate
			}
		}
	}

	// Every row up to maxY is blocked; the band below is guaranteed free.
	return models.GridPos{X: 0, Y: maxY, W: w, H: h}
}
