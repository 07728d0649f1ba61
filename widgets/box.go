package widgets

import "github.com/charmbracelet/lipgloss"

var (
	boxBorder   = lipgloss.Color("#585b70")
	focusBorder = lipgloss.Color("#b4befe")
	warnBorder  = lipgloss.Color("#f9e2af")
)

// Box is a titled, bordered tile.
type Box struct {
	Title   string
	Content string
	Focused bool
	Warn    bool
}

func (b Box) Render(width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}
	color := boxBorder
	switch {
	case b.Focused:
		color = focusBorder
	case b.Warn:
		color = warnBorder
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(width - 2).
		Height(height - 2).
		MaxWidth(width).
		MaxHeight(height)
	title := b.Title
	if b.Focused {
		title = "> " + title
	}
	body := truncate(title, width-2)
	if b.Content != "" && height > 3 {
		body += "\n" + b.Content
	}
	return style.Render(body)
}
