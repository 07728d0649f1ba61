package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/dashgrid/internal/grid"
	"github.com/jask/dashgrid/widgets"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	rowHeight     = 2
)

func (a *App) View() string {
	width, height := a.width, a.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	title := titleStyle.Render("Dashboard")
	footer := a.help.View(a.keys)
	bodyHeight := max(4, height-4)
	body := widgets.HStack{
		Widgets: []widgets.Widget{a.gridView(), a.sidebar()},
		Ratios:  []float64{0.75, 0.25},
		Gap:     1,
	}.Render(width, bodyHeight)
	out := title + "\n" + body + "\n"
	if a.status != "" {
		out += statusStyle.Render(a.status)
	}
	return out + "\n" + footer
}

func (a *App) gridView() widgets.Grid {
	visible := a.cfg.VisibleLayout()
	hit := overlaps(visible)
	selected := a.selectedID()
	cat := a.store.Catalog()
	tiles := make([]widgets.Tile, 0, len(visible))
	for _, it := range visible {
		title := it.ID
		if w, ok := cat.Widget(it.ID); ok && w.Title != "" {
			title = w.Title
		}
		tiles = append(tiles, widgets.Tile{
			Title:   title,
			Content: geometry(it),
			X:       it.X,
			Y:       it.Y,
			W:       it.W,
			H:       it.H,
			Focused: it.ID == selected,
			Warn:    hit[it.ID],
		})
	}
	return widgets.Grid{Cols: grid.Cols, RowHeight: rowHeight, Tiles: tiles}
}

func geometry(it grid.Item) string {
	return fmt.Sprintf("%d,%d %dx%d", it.X, it.Y, it.W, it.H)
}

func (a *App) sidebar() widgets.VStack {
	cat := a.store.Catalog()
	rows := make([]string, 0, len(cat.IDs()))
	for _, w := range cat.Widgets() {
		mark := "[ ]"
		if a.cfg.Visible[w.ID] {
			mark = "[x]"
		}
		rows = append(rows, mark+" "+w.Title)
	}
	return widgets.VStack{
		Widgets: []widgets.Widget{
			widgets.List{Title: "Widgets", Items: rows, Cursor: a.selected},
			widgets.List{Title: "Cards", Items: a.cfg.Order, Cursor: a.cardCursor},
		},
		Spacing: 1,
	}
}
