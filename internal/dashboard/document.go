package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/grid"
	"github.com/jask/dashgrid/internal/layout"
	"github.com/jask/dashgrid/internal/order"
)

// DocumentVersion is written into every saved document. Documents without a
// version predate it and may still hold 4-column layouts.
const DocumentVersion = 2

type document struct {
	Version int             `json:"version"`
	Visible map[string]bool `json:"visible"`
	Layout  []grid.Item     `json:"layout"`
	Order   []string        `json:"order"`
}

// Encode serialises cfg as a versioned JSON document.
func Encode(cfg Config) (string, error) {
	data, err := json.Marshal(document{
		Version: DocumentVersion,
		Visible: cfg.Visible,
		Layout:  cfg.Layout,
		Order:   cfg.Order,
	})
	if err != nil {
		return "", fmt.Errorf("encode dashboard: %w", err)
	}
	return string(data), nil
}

// Decode turns a saved document back into a Config. It never fails: empty or
// unreadable input yields the catalog default, and anything that survives is
// migrated, healed against the catalog and completed so every widget has a
// layout item.
func Decode(raw string, cat *catalog.Catalog) Config {
	cfg, _ := decode(raw, cat)
	return cfg
}

// decodeReport records what Decode had to do, for logging.
type decodeReport struct {
	defaulted string // reason the whole document was replaced, if it was
	migrated  bool
	dropped   int // fields or items that could not be read
}

func decode(raw string, cat *catalog.Catalog) (Config, decodeReport) {
	var rep decodeReport
	raw = strings.TrimSpace(raw)
	if raw == "" {
		rep.defaulted = "empty document"
		return Default(cat), rep
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		rep.defaulted = "not a JSON object"
		return Default(cat), rep
	}

	version := 0
	if v, ok := fields["version"]; ok {
		if err := json.Unmarshal(v, &version); err != nil {
			rep.dropped++
		}
	}

	cfg := Default(cat)
	if v, ok := fields["visible"]; ok {
		var vis map[string]json.RawMessage
		if err := json.Unmarshal(v, &vis); err != nil {
			rep.dropped++
		}
		for id, rawShown := range vis {
			if !cat.Has(id) {
				continue
			}
			var shown bool
			if err := json.Unmarshal(rawShown, &shown); err != nil {
				rep.dropped++
				continue
			}
			cfg.Visible[id] = shown
		}
	}

	var items []grid.Item
	if v, ok := fields["layout"]; ok {
		var n int
		items, n = decodeItems(v)
		rep.dropped += n
	}
	if version < DocumentVersion && layout.LooksLegacy(items) {
		items = layout.Migrate(items, grid.Cols)
		rep.migrated = true
	}
	cfg.Layout = ensureAll(heal(items, cat), cat)

	if v, ok := fields["order"]; ok {
		ids, n := decodeIDs(v)
		rep.dropped += n
		cfg.Order = order.Apply(cat.Cards(), ids)
	}
	return cfg, rep
}

type rawItem struct {
	ID   string   `json:"i"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	W    *float64 `json:"w"`
	H    *float64 `json:"h"`
	MinW *float64 `json:"minW"`
	MinH *float64 `json:"minH"`
	MaxW *float64 `json:"maxW"`
	MaxH *float64 `json:"maxH"`
}

func (r rawItem) item() grid.Item {
	n := func(f *float64) int {
		if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
			return 0
		}
		return int(math.Round(*f))
	}
	return grid.Item{
		ID: r.ID, X: n(r.X), Y: n(r.Y), W: n(r.W), H: n(r.H),
		MinW: n(r.MinW), MinH: n(r.MinH), MaxW: n(r.MaxW), MaxH: n(r.MaxH),
	}
}

// decodeItems reads a layout array item by item, skipping entries that are
// not objects with an id.
func decodeItems(data json.RawMessage) ([]grid.Item, int) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, 1
	}
	out := make([]grid.Item, 0, len(elems))
	dropped := 0
	for _, e := range elems {
		var r rawItem
		if err := json.Unmarshal(e, &r); err != nil || strings.TrimSpace(r.ID) == "" {
			dropped++
			continue
		}
		out = append(out, r.item())
	}
	return out, dropped
}

// decodeIDs reads an order array. Numeric ids are kept in their literal form.
func decodeIDs(data json.RawMessage) ([]string, int) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, 1
	}
	out := make([]string, 0, len(elems))
	dropped := 0
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			out = append(out, s)
			continue
		}
		var num json.Number
		dec := json.NewDecoder(bytes.NewReader(e))
		dec.UseNumber()
		if err := dec.Decode(&num); err == nil {
			out = append(out, num.String())
			continue
		}
		dropped++
	}
	return out, dropped
}

// DecodePartial parses a partial layout as reported by a rendering surface:
// a JSON array of item-shaped objects where absent fields mean unchanged.
func DecodePartial(raw string) ([]grid.Patch, error) {
	var patches []grid.Patch
	if err := json.Unmarshal([]byte(raw), &patches); err != nil {
		return nil, fmt.Errorf("decode partial layout: %w", err)
	}
	return patches, nil
}
