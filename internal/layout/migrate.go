// Package layout reconciles widget layouts: forward migration of layouts
// saved for the older 4-column grid, merge of partial updates reported by the
// rendering surface, and size-bounded resizing.
//
// Every function is pure. Inputs are never modified; results are fresh slices.
package layout

import (
	"math"

	"github.com/jask/dashgrid/internal/grid"
)

// LegacyCols is the column count of layouts saved before the 12-column grid.
const LegacyCols = 4

// LooksLegacy reports whether items look like they were laid out on the
// 4-column grid: every item has w and effective maxW (4 when unset) at most 4.
//
// This is a heuristic. A current layout built only from narrow widgets also
// matches, so it is only consulted for documents saved without a version.
func LooksLegacy(items []grid.Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		maxW := it.MaxW
		if maxW == 0 {
			maxW = LegacyCols
		}
		if maxW > LegacyCols || it.W > LegacyCols {
			return false
		}
	}
	return true
}

// Migrate rescales a legacy layout onto cols columns. Column geometry (x, w,
// minW, maxW) is scaled by cols/4 and clamped; row geometry is untouched.
// Layouts that do not look legacy are returned as a copy, unchanged.
func Migrate(items []grid.Item, cols int) []grid.Item {
	out := make([]grid.Item, len(items))
	copy(out, items)
	if !LooksLegacy(items) {
		return out
	}
	factor := float64(cols) / LegacyCols
	scale := func(n int) int { return int(math.Round(float64(n) * factor)) }
	for i, it := range out {
		minW, maxW := it.MinW, it.MaxW
		if minW == 0 {
			minW = 1
		}
		if maxW == 0 {
			maxW = LegacyCols
		}
		it.X = scale(it.X)
		it.W = scale(it.W)
		it.MinW = grid.Clamp(scale(minW), 1, cols)
		it.MaxW = grid.Clamp(scale(maxW), 1, cols)
		if it.MaxW < it.MinW {
			it.MaxW = it.MinW
		}
		it.W = grid.Clamp(it.W, it.MinW, it.MaxW)
		out[i] = grid.FitWidth(it, cols)
	}
	return out
}
