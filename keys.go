package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding

	Add        key.Binding
	Properties key.Binding
	Delete     key.Binding
	Duplicate  key.Binding
	NextElem   key.Binding
	PrevElem   key.Binding
	Deselect   key.Binding

	Forward  key.Binding
	Backward key.Binding
	Front    key.Binding
	Back     key.Binding

	Undo key.Binding
	Redo key.Binding

	Copy  key.Binding
	Paste key.Binding

	TogglePreview key.Binding
	Export        key.Binding
	ExportPNG     key.Binding
	Import        key.Binding
	Clear         key.Binding

	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "nudge up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "nudge down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "nudge left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "nudge right"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("shift+up", "K"),
			key.WithHelp("K", "pan up"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("shift+down", "J"),
			key.WithHelp("J", "pan down"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "pan right"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add element"),
		),
		Properties: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "properties"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete", "backspace"),
			key.WithHelp("d", "delete"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "duplicate"),
		),
		NextElem: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next element"),
		),
		PrevElem: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous element"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "bring forward"),
		),
		Backward: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "send backward"),
		),
		Front: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "bring to front"),
		),
		Back: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "send to back"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r", "ctrl+y"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Paste: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "paste"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "design/preview"),
		),
		Export: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "export json"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "export png"),
		),
		Import: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "import"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear canvas"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "cancel"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Properties, k.Delete, k.Undo, k.TogglePreview, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Add, k.Properties, k.Delete, k.Duplicate, k.NextElem, k.PrevElem, k.Deselect},
		{k.Forward, k.Backward, k.Front, k.Back, k.Undo, k.Redo, k.Copy, k.Paste},
		{k.TogglePreview, k.Export, k.ExportPNG, k.Import, k.Clear, k.Help, k.Quit},
	}
}
