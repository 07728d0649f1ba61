package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Toggle   key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Narrower key.Binding
	Wider    key.Binding
	Shorter  key.Binding
	Taller   key.Binding
	Preset   key.Binding
	Reset    key.Binding
	NextCard key.Binding
	CardUp   key.Binding
	CardDown key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next widget")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev widget")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "v"), key.WithHelp("space", "show/hide")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Narrower: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "narrower")),
		Wider:    key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "wider")),
		Shorter:  key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "shorter")),
		Taller:   key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "taller")),
		Preset:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next preset")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		NextCard: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next card")),
		CardUp:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "card up")),
		CardDown: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "card down")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Up, k.Wider, k.Preset, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Toggle},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Narrower, k.Wider, k.Shorter, k.Taller},
		{k.Preset, k.Reset, k.NextCard, k.CardUp, k.CardDown, k.Quit},
	}
}
