package widgets

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt composites overlay onto base with its top-left corner at (x, y).
// Both are line grids; the result is width x height.
func overlayAt(base, overlay string, x, y, width, height int) string {
	baseLines := splitToLines(base, height)
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := maxLineWidth(overlayLines)
	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= height {
			continue
		}
		target := padRightANSI(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		piece := padRightANSI(line, overlayWidth)
		right := dropColumns(target, x+overlayWidth)
		baseLines[row] = padRightANSI(left+piece+right, width)
	}
	return strings.Join(baseLines, "\n")
}

// blankCanvas returns height lines of width spaces.
func blankCanvas(width, height int) string {
	row := strings.Repeat(" ", max(0, width))
	lines := make([]string, max(0, height))
	for i := range lines {
		lines[i] = row
	}
	return strings.Join(lines, "\n")
}

func splitToLines(s string, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func maxLineWidth(lines []string) int {
	m := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > m {
			m = w
		}
	}
	return m
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
