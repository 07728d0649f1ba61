// Package catalog describes the widgets a dashboard can show: their default
// geometry and visibility, the sortable card ids, and named presets.
//
// A Catalog is immutable once built. Accessors return copies.
package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/dashgrid/internal/grid"
)

// Widget is one catalog entry.
type Widget struct {
	ID      string
	Title   string
	Visible bool
	Layout  grid.Item
}

// Preset is a named visibility and layout bundle applied in one step.
// Visible has a key for every catalog widget.
type Preset struct {
	Name    string
	Visible map[string]bool
	Layout  []grid.Item
}

// Catalog is the fixed widget set a dashboard is built from.
type Catalog struct {
	widgets []Widget
	index   map[string]int
	cards   []string
	presets map[string]Preset
}

// New validates the definitions and returns a catalog with every layout item
// normalised onto the grid. Preset visibility lists the shown widgets; other
// catalog widgets are hidden by the preset.
func New(widgets []Widget, cards []string, presets map[string][]string, layouts map[string][]grid.Item) (*Catalog, error) {
	c := &Catalog{
		index:   make(map[string]int, len(widgets)),
		presets: make(map[string]Preset, len(presets)),
	}
	for i, w := range widgets {
		w.ID = strings.TrimSpace(w.ID)
		if w.ID == "" {
			return nil, fmt.Errorf("widget[%d]: id is required", i)
		}
		if _, dup := c.index[w.ID]; dup {
			return nil, fmt.Errorf("widget[%d] %q: duplicate id", i, w.ID)
		}
		if w.Title == "" {
			w.Title = w.ID
		}
		w.Layout.ID = w.ID
		w.Layout = grid.Normalize(w.Layout, grid.Cols)
		c.index[w.ID] = len(c.widgets)
		c.widgets = append(c.widgets, w)
	}

	seen := make(map[string]bool, len(cards))
	for i, id := range cards {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("cards[%d]: id is required", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("cards[%d] %q: duplicate id", i, id)
		}
		seen[id] = true
		c.cards = append(c.cards, id)
	}

	for name, shown := range presets {
		p, err := c.buildPreset(name, shown, layouts[name])
		if err != nil {
			return nil, err
		}
		c.presets[p.Name] = p
	}
	for name := range layouts {
		if _, ok := presets[name]; !ok {
			return nil, fmt.Errorf("preset %q: layout without visibility list", name)
		}
	}
	return c, nil
}

func (c *Catalog) buildPreset(name string, shown []string, items []grid.Item) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, fmt.Errorf("preset: name is required")
	}
	p := Preset{Name: name, Visible: make(map[string]bool, len(c.widgets))}
	for _, w := range c.widgets {
		p.Visible[w.ID] = false
	}
	for _, id := range shown {
		if !c.Has(id) {
			return Preset{}, fmt.Errorf("preset %q: unknown widget %q", name, id)
		}
		p.Visible[id] = true
	}
	for i, it := range items {
		w, ok := c.Widget(it.ID)
		if !ok {
			return Preset{}, fmt.Errorf("preset %q layout[%d]: unknown widget %q", name, i, it.ID)
		}
		if grid.Find(p.Layout, it.ID) >= 0 {
			return Preset{}, fmt.Errorf("preset %q layout[%d]: duplicate widget %q", name, i, it.ID)
		}
		p.Layout = append(p.Layout, grid.Normalize(fillFrom(it, w.Layout), grid.Cols))
	}
	return p, nil
}

// fillFrom copies size bounds from def into the zero fields of it.
func fillFrom(it, def grid.Item) grid.Item {
	if it.W == 0 {
		it.W = def.W
	}
	if it.H == 0 {
		it.H = def.H
	}
	if it.MinW == 0 {
		it.MinW = def.MinW
	}
	if it.MinH == 0 {
		it.MinH = def.MinH
	}
	if it.MaxW == 0 {
		it.MaxW = def.MaxW
	}
	if it.MaxH == 0 {
		it.MaxH = def.MaxH
	}
	return it
}

// Heal fills unset size fields of it from the catalog default for its id and
// normalises the result. ok is false when the id is not in the catalog.
func (c *Catalog) Heal(it grid.Item) (grid.Item, bool) {
	w, ok := c.Widget(it.ID)
	if !ok {
		return it, false
	}
	return grid.Normalize(fillFrom(it, w.Layout), grid.Cols), true
}

// Widgets returns the catalog entries in definition order.
func (c *Catalog) Widgets() []Widget {
	return slices.Clone(c.widgets)
}

// IDs returns the widget ids in definition order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.widgets))
	for i, w := range c.widgets {
		out[i] = w.ID
	}
	return out
}

// Has reports whether id is a catalog widget.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

func (c *Catalog) Widget(id string) (Widget, bool) {
	i, ok := c.index[id]
	if !ok {
		return Widget{}, false
	}
	return c.widgets[i], true
}

// Cards returns the sortable card ids in catalog order.
func (c *Catalog) Cards() []string {
	return slices.Clone(c.cards)
}

func (c *Catalog) Preset(name string) (Preset, bool) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, false
	}
	vis := make(map[string]bool, len(p.Visible))
	for k, v := range p.Visible {
		vis[k] = v
	}
	return Preset{Name: p.Name, Visible: vis, Layout: slices.Clone(p.Layout)}, true
}

// PresetNames returns preset names sorted alphabetically.
func (c *Catalog) PresetNames() []string {
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, cand := range candidates {
		d := levenshtein.ComputeDistance(name, strings.ToLower(cand))
		if bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	limit := max(2, len(name)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
