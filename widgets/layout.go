package widgets

import (
	"math"
	"strings"
)

// VStack stacks widgets top to bottom, splitting height by Ratios.
type VStack struct {
	Widgets []Widget
	Spacing int
	Ratios  []float64
}

func (v VStack) Render(width, height int) string {
	if len(v.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	spacingTotal := max(0, v.Spacing*(len(v.Widgets)-1))
	usable := max(1, height-spacingTotal)
	heights := splitSizes(usable, len(v.Widgets), v.Ratios)
	lines := make([]string, 0, height)
	for i, w := range v.Widgets {
		lines = append(lines, splitToLines(w.Render(width, max(1, heights[i])), max(1, heights[i]))...)
		if i < len(v.Widgets)-1 {
			for s := 0; s < v.Spacing; s++ {
				lines = append(lines, "")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// HStack places widgets side by side, splitting width by Ratios.
type HStack struct {
	Widgets []Widget
	Ratios  []float64
	Gap     int
}

func (h HStack) Render(width, height int) string {
	if len(h.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	gapTotal := max(0, h.Gap*(len(h.Widgets)-1))
	usable := max(1, width-gapTotal)
	widths := splitSizes(usable, len(h.Widgets), h.Ratios)
	rendered := make([][]string, len(h.Widgets))
	for i, w := range h.Widgets {
		rendered[i] = splitToLines(w.Render(max(1, widths[i]), height), height)
	}
	out := make([]string, height)
	for line := range out {
		cols := make([]string, len(rendered))
		for i := range rendered {
			cols[i] = padRightANSI(rendered[i][line], widths[i])
		}
		out[line] = strings.Join(cols, strings.Repeat(" ", h.Gap))
	}
	return strings.Join(out, "\n")
}

// splitSizes divides total into n parts. Without a ratio per part the split is
// even, with the remainder going to the first parts.
func splitSizes(total, n int, ratios []float64) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	if len(ratios) != n {
		for i := range out {
			out[i] = total / n
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}
	sum := 0.0
	for _, r := range ratios {
		sum += math.Max(r, 0)
	}
	if sum == 0 {
		return splitSizes(total, n, nil)
	}
	used := 0
	for i, r := range ratios {
		out[i] = int(math.Floor(math.Max(r, 0) / sum * float64(total)))
		used += out[i]
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}
