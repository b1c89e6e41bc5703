package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Next        key.Binding
	Prev        key.Binding
	Books       key.Binding
	History     key.Binding
	Goto        key.Binding
	Search      key.Binding
	Compare     key.Binding
	Translation key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	Theme       key.Binding
	Reset       key.Binding
	Select      key.Binding
	Back        key.Binding
	Help        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:        key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n", "next")),
		Prev:        key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p", "prev")),
		Books:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "books")),
		History:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "history")),
		Goto:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Compare:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compare")),
		Translation: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translation")),
		ZoomIn:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Theme:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Goto, k.Search, k.Books, k.Translation, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Books, k.History},
		{k.Goto, k.Search, k.Compare},
		{k.Translation, k.ZoomIn, k.ZoomOut, k.Theme},
		{k.Reset, k.Help, k.Quit},
	}
}
