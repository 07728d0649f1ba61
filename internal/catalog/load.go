package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jask/dashgrid/internal/grid"
)

const builtinTOML = `version = 1

cards = ["arrivals", "departures", "occupancy", "alerts"]

[[widget]]
id = "stats"
title = "Stats"
visible = true
x = 0
y = 0
w = 6
h = 3
min_w = 3
max_w = 12
min_h = 2
max_h = 6

[[widget]]
id = "bookings"
title = "Bookings"
visible = true
x = 6
y = 0
w = 6
h = 4
min_w = 4
max_w = 12
min_h = 3
max_h = 8

[[widget]]
id = "revenue"
title = "Revenue"
visible = true
x = 0
y = 3
w = 6
h = 4
min_w = 3
max_w = 12
min_h = 2
max_h = 6

[[widget]]
id = "telemetry"
title = "Telemetry"
visible = false
x = 6
y = 4
w = 6
h = 3
min_w = 3
max_w = 12
min_h = 2
max_h = 6

[[widget]]
id = "calendar"
title = "Calendar"
visible = true
x = 0
y = 7
w = 4
h = 4
min_w = 3
max_w = 8
min_h = 3
max_h = 8

[[widget]]
id = "activity"
title = "Activity"
visible = false
x = 4
y = 7
w = 8
h = 3
min_w = 2
max_w = 12
min_h = 2
max_h = 6

[preset.default]
visible = ["stats", "bookings", "revenue", "calendar"]

[[preset.default.layout]]
id = "stats"
x = 0
y = 0
w = 6
h = 3

[[preset.default.layout]]
id = "bookings"
x = 6
y = 0
w = 6
h = 4

[[preset.default.layout]]
id = "revenue"
x = 0
y = 3
w = 6
h = 4

[[preset.default.layout]]
id = "calendar"
x = 0
y = 7
w = 4
h = 4

[preset.wallboard]
visible = ["telemetry", "stats", "activity"]

[[preset.wallboard.layout]]
id = "telemetry"
x = 0
y = 0
w = 12
h = 6

[[preset.wallboard.layout]]
id = "stats"
x = 0
y = 6
w = 6
h = 3

[[preset.wallboard.layout]]
id = "activity"
x = 6
y = 6
w = 6
h = 4

[preset.compact]
visible = ["stats", "bookings"]

[[preset.compact.layout]]
id = "stats"
x = 0
y = 0
w = 4
h = 2

[[preset.compact.layout]]
id = "bookings"
x = 4
y = 0
w = 8
h = 3
`

type fileItem struct {
	ID   string `toml:"id" yaml:"id"`
	X    int    `toml:"x" yaml:"x"`
	Y    int    `toml:"y" yaml:"y"`
	W    int    `toml:"w" yaml:"w"`
	H    int    `toml:"h" yaml:"h"`
	MinW int    `toml:"min_w" yaml:"min_w"`
	MinH int    `toml:"min_h" yaml:"min_h"`
	MaxW int    `toml:"max_w" yaml:"max_w"`
	MaxH int    `toml:"max_h" yaml:"max_h"`
}

func (f fileItem) item() grid.Item {
	return grid.Item{ID: f.ID, X: f.X, Y: f.Y, W: f.W, H: f.H, MinW: f.MinW, MinH: f.MinH, MaxW: f.MaxW, MaxH: f.MaxH}
}

type fileWidget struct {
	fileItem `yaml:",inline"`

	Title   string `toml:"title" yaml:"title"`
	Visible *bool  `toml:"visible" yaml:"visible"`
}

type filePreset struct {
	Visible []string   `toml:"visible" yaml:"visible"`
	Layout  []fileItem `toml:"layout" yaml:"layout"`
}

type catalogFile struct {
	Version int                   `toml:"version" yaml:"version"`
	Cards   []string              `toml:"cards" yaml:"cards"`
	Widget  []fileWidget          `toml:"widget" yaml:"widget"`
	Preset  map[string]filePreset `toml:"preset" yaml:"preset"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse([]byte(builtinTOML))
	if err != nil {
		panic(fmt.Sprintf("catalog: builtin: %v", err))
	}
	return c
}

// Load reads a catalog file, TOML unless the extension is .yaml or .yml. An
// empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	parse := Parse
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return f.build()
}

// ParseYAML decodes and validates a YAML catalog. It uses the same keys as
// the TOML form.
func ParseYAML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return f.build()
}

func (f catalogFile) build() (*Catalog, error) {
	if len(f.Widget) == 0 {
		return nil, fmt.Errorf("no widgets defined in catalog")
	}
	widgets := make([]Widget, 0, len(f.Widget))
	for _, fw := range f.Widget {
		visible := true
		if fw.Visible != nil {
			visible = *fw.Visible
		}
		widgets = append(widgets, Widget{ID: fw.ID, Title: fw.Title, Visible: visible, Layout: fw.item()})
	}
	shown := make(map[string][]string, len(f.Preset))
	layouts := make(map[string][]grid.Item, len(f.Preset))
	for name, p := range f.Preset {
		shown[name] = append([]string{}, p.Visible...)
		for _, it := range p.Layout {
			layouts[name] = append(layouts[name], it.item())
		}
	}
	return New(widgets, f.Cards, shown, layouts)
}
