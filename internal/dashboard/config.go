// Package dashboard owns a user's dashboard configuration: which widgets are
// visible, where they sit on the grid, and the order of the sortable cards.
//
// The Store is the only writer. Every mutation keeps the invariant that each
// visible widget has exactly one valid layout item, and writes the result
// through a Persister before returning.
package dashboard

import (
	"slices"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/grid"
	"github.com/jask/dashgrid/internal/layout"
	"github.com/jask/dashgrid/internal/order"
)

// Config is the authoritative dashboard state. Layout items for hidden widgets
// are kept so showing the widget again restores its last geometry.
type Config struct {
	Visible map[string]bool
	Layout  []grid.Item
	Order   []string
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	vis := make(map[string]bool, len(c.Visible))
	for k, v := range c.Visible {
		vis[k] = v
	}
	return Config{Visible: vis, Layout: slices.Clone(c.Layout), Order: slices.Clone(c.Order)}
}

// VisibleLayout returns the items a rendering surface should draw, in layout
// order.
func (c Config) VisibleLayout() []grid.Item {
	out := make([]grid.Item, 0, len(c.Layout))
	for _, it := range c.Layout {
		if c.Visible[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// Item returns the layout item for id.
func (c Config) Item(id string) (grid.Item, bool) {
	i := grid.Find(c.Layout, id)
	if i < 0 {
		return grid.Item{}, false
	}
	return c.Layout[i], true
}

// Default builds the configuration a new user starts with.
func Default(cat *catalog.Catalog) Config {
	cfg := Config{
		Visible: make(map[string]bool, len(cat.IDs())),
		Layout:  make([]grid.Item, 0, len(cat.IDs())),
		Order:   order.Apply(cat.Cards(), nil),
	}
	for _, w := range cat.Widgets() {
		cfg.Visible[w.ID] = w.Visible
		cfg.Layout = append(cfg.Layout, w.Layout)
	}
	return cfg
}

// ensureAll appends the catalog default for every widget without a layout
// item, in catalog order.
func ensureAll(items []grid.Item, cat *catalog.Catalog) []grid.Item {
	for _, w := range cat.Widgets() {
		items = layout.EnsureEntry(items, w.Layout)
	}
	return items
}

// heal drops items outside the catalog or repeated ids, fills unset size
// fields from the catalog default and normalises every item.
func heal(items []grid.Item, cat *catalog.Catalog) []grid.Item {
	out := make([]grid.Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		healed, ok := cat.Heal(it)
		if !ok {
			continue
		}
		seen[it.ID] = true
		out = append(out, healed)
	}
	return out
}
