package widgets

// Tile is one widget placed on the grid, in grid units.
type Tile struct {
	Title   string
	Content string
	X, Y    int
	W, H    int
	Focused bool
	Warn    bool
}

// Grid draws tiles on a fixed-column grid scaled to the available width.
// Later tiles are drawn over earlier ones.
type Grid struct {
	Cols      int
	RowHeight int // text lines per grid row
	Tiles     []Tile
}

func (g Grid) Render(width, height int) string {
	if width <= 0 || height <= 0 || g.Cols <= 0 {
		return ""
	}
	rowHeight := g.RowHeight
	if rowHeight <= 0 {
		rowHeight = 2
	}
	colWidth := max(1, width/g.Cols)
	canvas := blankCanvas(width, height)
	// Focused tiles go last so their border is never hidden.
	ordered := make([]Tile, 0, len(g.Tiles))
	var focused []Tile
	for _, t := range g.Tiles {
		if t.Focused {
			focused = append(focused, t)
			continue
		}
		ordered = append(ordered, t)
	}
	ordered = append(ordered, focused...)
	for _, t := range ordered {
		x, y := t.X*colWidth, t.Y*rowHeight
		w, h := t.W*colWidth, t.H*rowHeight
		if x >= width || y >= height || w < 2 || h < 2 {
			continue
		}
		box := Box{Title: t.Title, Content: t.Content, Focused: t.Focused, Warn: t.Warn}
		canvas = overlayAt(canvas, box.Render(min(w, width-x), min(h, height-y)), x, y, width, height)
	}
	return canvas
}

// Height returns the number of text lines needed to show every tile.
func (g Grid) Height() int {
	rowHeight := g.RowHeight
	if rowHeight <= 0 {
		rowHeight = 2
	}
	bottom := 0
	for _, t := range g.Tiles {
		bottom = max(bottom, t.Y+t.H)
	}
	return bottom * rowHeight
}
