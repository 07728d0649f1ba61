package widgets

import "strings"

// List renders a title and one row per item, marking the cursor row.
type List struct {
	Title  string
	Items  []string
	Cursor int // -1 for no cursor
}

func (l List) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := make([]string, 0, len(l.Items)+1)
	rows = append(rows, truncate(l.Title, width))
	for i, item := range l.Items {
		prefix := "  "
		if i == l.Cursor {
			prefix = "> "
		}
		rows = append(rows, truncate(prefix+item, width))
	}
	if len(rows) > height {
		rows = rows[:height]
	}
	return strings.Join(rows, "\n")
}
