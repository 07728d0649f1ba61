package layout

import "github.com/jask/dashgrid/internal/grid"

// EnsureEntry appends a copy of def when no item carries its id.
func EnsureEntry(items []grid.Item, def grid.Item) []grid.Item {
	out := make([]grid.Item, len(items), len(items)+1)
	copy(out, items)
	if grid.Find(out, def.ID) >= 0 {
		return out
	}
	return append(out, def)
}

// Merge folds a partial update into the stored layout. Items named in the
// update take the union of their stored fields and the reported ones, with
// reported fields winning. Stored items the update does not mention are kept
// verbatim, so widgets the surface is not drawing keep their geometry. Items
// only present in the update are appended in update order.
func Merge(stored []grid.Item, partial []grid.Patch) []grid.Item {
	byID := make(map[string]grid.Patch, len(partial))
	for _, p := range partial {
		if p.ID == "" {
			continue
		}
		if prev, ok := byID[p.ID]; ok {
			byID[p.ID] = mergePatch(prev, p)
			continue
		}
		byID[p.ID] = p
	}

	out := make([]grid.Item, 0, len(stored)+len(byID))
	seen := make(map[string]bool, len(stored))
	for _, it := range stored {
		seen[it.ID] = true
		if p, ok := byID[it.ID]; ok {
			it = p.Apply(it)
		}
		out = append(out, it)
	}
	for _, p := range partial {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, byID[p.ID].Item())
	}
	return out
}

// Resize sets the item's size, clamped to its bounds, and shifts it left if the
// new width would overflow cols. Unknown ids leave the layout unchanged.
func Resize(items []grid.Item, id string, w, h, cols int) []grid.Item {
	out := make([]grid.Item, len(items))
	copy(out, items)
	idx := grid.Find(out, id)
	if idx < 0 {
		return out
	}
	it := out[idx]
	it.W = grid.Clamp(w, it.MinW, it.MaxW)
	it.H = grid.Clamp(h, it.MinH, it.MaxH)
	out[idx] = grid.FitWidth(it, cols)
	return out
}

// mergePatch combines two reports for the same id; b wins.
func mergePatch(a, b grid.Patch) grid.Patch {
	pick := func(x, y *int) *int {
		if y != nil {
			return y
		}
		return x
	}
	return grid.Patch{
		ID:   a.ID,
		X:    pick(a.X, b.X),
		Y:    pick(a.Y, b.Y),
		W:    pick(a.W, b.W),
		H:    pick(a.H, b.H),
		MinW: pick(a.MinW, b.MinW),
		MinH: pick(a.MinH, b.MinH),
		MaxW: pick(a.MaxW, b.MaxW),
		MaxH: pick(a.MaxH, b.MaxH),
	}
}
