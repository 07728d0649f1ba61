// Package grid holds the column-grid geometry shared by every layout
// operation: the item record, clamping, overflow fitting and overlap tests.
package grid

// Cols is the horizontal resolution every x/w coordinate is expressed in.
const Cols = 12

// Item is the position and size record for one widget.
//
// Zero values in the size bounds mean "not set" while a layout is being
// decoded or migrated; Normalize fills and repairs them.
type Item struct {
	ID   string `json:"i"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW int    `json:"minW,omitempty"`
	MinH int    `json:"minH,omitempty"`
	MaxW int    `json:"maxW,omitempty"`
	MaxH int    `json:"maxH,omitempty"`
}

// Clamp bounds n to [lo, hi]. The result is unspecified when lo > hi.
func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// FitWidth shifts the item left so it does not run past cols. Width is never
// changed.
func FitWidth(it Item, cols int) Item {
	if it.X+it.W > cols {
		it.X = max(0, cols-it.W)
	}
	return it
}

// Overlaps reports whether two items share any cell. It is advisory only;
// placement never depends on it.
func Overlaps(a, b Item) bool {
	if a.W <= 0 || a.H <= 0 || b.W <= 0 || b.H <= 0 {
		return false
	}
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// Normalize repairs an item so it satisfies every grid invariant:
//
//	1 <= minW <= w <= maxW <= cols
//	1 <= minH <= h <= maxH
//	0 <= x, x+w <= cols, 0 <= y
//
// Unset bounds widen to the loosest legal value (maxH falls back to h).
func Normalize(it Item, cols int) Item {
	it.MinW = Clamp(it.MinW, 1, cols)
	if it.MaxW == 0 {
		it.MaxW = cols
	}
	it.MaxW = Clamp(it.MaxW, it.MinW, cols)
	it.W = Clamp(it.W, it.MinW, it.MaxW)

	it.MinH = max(1, it.MinH)
	it.H = max(it.H, it.MinH)
	if it.MaxH == 0 {
		it.MaxH = it.H
	}
	it.MaxH = max(it.MaxH, it.MinH)
	it.H = Clamp(it.H, it.MinH, it.MaxH)

	it.X = max(0, it.X)
	it.Y = max(0, it.Y)
	return FitWidth(it, cols)
}

// Valid reports whether the item already satisfies the grid invariants.
func Valid(it Item, cols int) bool {
	return it.ID != "" &&
		1 <= it.MinW && it.MinW <= it.W && it.W <= it.MaxW && it.MaxW <= cols &&
		1 <= it.MinH && it.MinH <= it.H && it.H <= it.MaxH &&
		it.X >= 0 && it.X+it.W <= cols && it.Y >= 0
}

// Find returns the index of the item with id, or -1.
func Find(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
