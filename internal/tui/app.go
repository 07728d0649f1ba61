// Package tui is an interactive dashboard editor. It draws the visible
// widgets on the grid and reports every edit back to the dashboard store.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/dashgrid/internal/dashboard"
	"github.com/jask/dashgrid/internal/grid"
)

// App is the bubbletea model. Store calls run on the update loop, which keeps
// them serialised. The store has already been loaded by the host; the editor
// follows it through its change listener.
type App struct {
	ctx        context.Context
	store      *dashboard.Store
	cfg        dashboard.Config
	selected   int // index into the catalog's widgets
	cardCursor int
	presetIdx  int
	status     string
	width      int
	height     int
	keys       keyMap
	help       help.Model
}

func New(ctx context.Context, store *dashboard.Store) *App {
	a := &App{
		ctx:       ctx,
		store:     store,
		cfg:       store.Config(),
		presetIdx: -1,
		keys:      newKeyMap(),
		help:      help.New(),
	}
	a.status = a.overlapStatus()
	store.OnChange(func(cfg dashboard.Config) { a.cfg = cfg })
	return a
}

// ReloadMsg asks the editor to re-read the stored configuration, for example
// after another process saved it.
type ReloadMsg struct{}

func (a *App) Init() tea.Cmd { return nil }

// Config returns the configuration the editor last saw.
func (a *App) Config() dashboard.Config { return a.cfg.Clone() }

// Status returns the status line.
func (a *App) Status() string { return a.status }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
	case ReloadMsg:
		a.store.Load(a.ctx)
		a.status = "reloaded"
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ids := a.store.Catalog().IDs()
	if key.Matches(m, a.keys.Quit) {
		return a, tea.Quit
	}
	if len(ids) == 0 {
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Next):
		a.selected = (a.selected + 1) % len(ids)
	case key.Matches(m, a.keys.Prev):
		a.selected = (a.selected + len(ids) - 1) % len(ids)
	case key.Matches(m, a.keys.Toggle):
		id := ids[a.selected]
		a.apply(a.store.SetVisible(a.ctx, id, !a.cfg.Visible[id]))
	case key.Matches(m, a.keys.Left):
		a.move(-1, 0)
	case key.Matches(m, a.keys.Right):
		a.move(1, 0)
	case key.Matches(m, a.keys.Up):
		a.move(0, -1)
	case key.Matches(m, a.keys.Down):
		a.move(0, 1)
	case key.Matches(m, a.keys.Narrower):
		a.resize(-1, 0)
	case key.Matches(m, a.keys.Wider):
		a.resize(1, 0)
	case key.Matches(m, a.keys.Shorter):
		a.resize(0, -1)
	case key.Matches(m, a.keys.Taller):
		a.resize(0, 1)
	case key.Matches(m, a.keys.Preset):
		names := a.store.Catalog().PresetNames()
		if len(names) == 0 {
			a.status = "no presets"
			return a, nil
		}
		a.presetIdx = (a.presetIdx + 1) % len(names)
		if a.apply(a.store.ApplyPreset(a.ctx, names[a.presetIdx])) {
			a.status = "preset " + names[a.presetIdx]
		}
	case key.Matches(m, a.keys.Reset):
		if a.apply(a.store.Reset(a.ctx)) {
			a.status = "reset to defaults"
		}
	case key.Matches(m, a.keys.NextCard):
		if n := len(a.cfg.Order); n > 0 {
			a.cardCursor = (a.cardCursor + 1) % n
		}
	case key.Matches(m, a.keys.CardUp):
		a.shiftCard(-1)
	case key.Matches(m, a.keys.CardDown):
		a.shiftCard(1)
	}
	return a, nil
}

// apply reports the outcome of a store call and whether it saved. The new
// configuration itself arrives through the change listener.
func (a *App) apply(_ dashboard.Config, err error) bool {
	if err != nil {
		a.status = "error: " + err.Error()
		return false
	}
	a.status = a.overlapStatus()
	return true
}

func (a *App) selectedID() string {
	ids := a.store.Catalog().IDs()
	if a.selected >= len(ids) {
		return ""
	}
	return ids[a.selected]
}

// move shifts the selected widget and reports the visible layout back as the
// grid would after a drag.
func (a *App) move(dx, dy int) {
	id := a.selectedID()
	if !a.cfg.Visible[id] {
		a.status = id + " is hidden"
		return
	}
	visible := a.cfg.VisibleLayout()
	partial := make([]grid.Patch, 0, len(visible))
	for _, it := range visible {
		if it.ID == id {
			it.X = max(0, it.X+dx)
			it.Y = max(0, it.Y+dy)
		}
		partial = append(partial, it.Patch())
	}
	a.apply(a.store.ApplyPartialLayout(a.ctx, partial))
}

func (a *App) resize(dw, dh int) {
	id := a.selectedID()
	it, ok := a.cfg.Item(id)
	if !ok {
		return
	}
	a.apply(a.store.Resize(a.ctx, id, it.W+dw, it.H+dh))
}

func (a *App) shiftCard(delta int) {
	n := len(a.cfg.Order)
	if n == 0 {
		return
	}
	to := a.cardCursor + delta
	if to < 0 || to >= n {
		return
	}
	if a.apply(a.store.Reorder(a.ctx, a.cfg.Order[a.cardCursor], a.cfg.Order[to])) {
		a.cardCursor = to
	}
}

// overlaps lists the visible widgets that collide with another visible widget.
// It is display-only; overlapping layouts are saved as they are.
func overlaps(items []grid.Item) map[string]bool {
	out := map[string]bool{}
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if grid.Overlaps(items[i], items[j]) {
				out[items[i].ID] = true
				out[items[j].ID] = true
			}
		}
	}
	return out
}

func (a *App) overlapStatus() string {
	hit := overlaps(a.cfg.VisibleLayout())
	if len(hit) == 0 {
		return ""
	}
	var ids []string
	for _, it := range a.cfg.VisibleLayout() {
		if hit[it.ID] {
			ids = append(ids, it.ID)
		}
	}
	return fmt.Sprintf("overlapping: %s", strings.Join(ids, ", "))
}
