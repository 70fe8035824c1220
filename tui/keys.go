package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Actions
	Reload     key.Binding
	Shell      key.Binding
	CopyOutput key.Binding
	Detail     key.Binding

	// Meta
	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "bottom"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-render"),
		),
		Shell: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "shell"),
		),
		CopyOutput: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy outputs"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "detail"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) helpText() string {
	format := func(b key.Binding) string {
		h := b.Help()
		return "  " + padRight(h.Key, 12) + h.Desc
	}

	return `Navigation
` + format(k.Up) + `
` + format(k.Down) + `
` + format(k.Top) + `
` + format(k.Bottom) + `

Actions
` + format(k.Reload) + `
` + format(k.CopyOutput) + `
` + format(k.Shell) + `
` + format(k.Detail) + `

` + format(k.Help) + `
` + format(k.Quit)
}
