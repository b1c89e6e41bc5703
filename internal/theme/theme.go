package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named color palette for the reader.
type Theme struct {
	Key  string // stable identifier saved in settings
	Name string

	Primary   lipgloss.Color // verse text
	Secondary lipgloss.Color // verse numbers
	Accent    lipgloss.Color // titles
	Muted     lipgloss.Color // help and status
	Error     lipgloss.Color

	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Highlight    lipgloss.Color
}

// Available themes, in the order "T" cycles through them.
var themes = []Theme{
	{
		Key: "catppuccin-mocha", Name: "Catppuccin Mocha",
		Primary: "#cdd6f4", Secondary: "#a6adc8", Accent: "#f5c2e7", Muted: "#6c7086", Error: "#f38ba8",
		Border: "#45475a", BorderActive: "#89b4fa", Highlight: "#45475a",
	},
	{
		Key: "catppuccin-latte", Name: "Catppuccin Latte",
		Primary: "#4c4f69", Secondary: "#5c5f77", Accent: "#ea76cb", Muted: "#9ca0b0", Error: "#d20f39",
		Border: "#dce0e8", BorderActive: "#1e66f5", Highlight: "#ccd0da",
	},
	{
		Key: "dracula", Name: "Dracula",
		Primary: "#f8f8f2", Secondary: "#6272a4", Accent: "#ff79c6", Muted: "#6272a4", Error: "#ff5555",
		Border: "#44475a", BorderActive: "#bd93f9", Highlight: "#44475a",
	},
	{
		Key: "rosepine-moon", Name: "Rosé Pine Moon",
		Primary: "#e0def4", Secondary: "#908caa", Accent: "#ebbcba", Muted: "#6e6a86", Error: "#eb6f92",
		Border: "#403d52", BorderActive: "#c4a7e7", Highlight: "#393552",
	},
	{
		Key: "solarized-light", Name: "Solarized Light",
		Primary: "#657b83", Secondary: "#93a1a1", Accent: "#d33682", Muted: "#93a1a1", Error: "#dc322f",
		Border: "#eee8d5", BorderActive: "#268bd2", Highlight: "#eee8d5",
	},
}

// All returns every theme.
func All() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// Get returns the theme with key, defaulting to Catppuccin Mocha if not found
func Get(key string) Theme {
	for _, t := range themes {
		if t.Key == key {
			return t
		}
	}
	return themes[0]
}

// Next returns the theme after key, wrapping around.
func Next(key string) Theme {
	for i, t := range themes {
		if t.Key == key {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// Styles are the lipgloss styles the reader draws with.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	VerseNum lipgloss.Style
	Text     lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
}

// Styles derives the reader styles from t.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		VerseNum: lipgloss.NewStyle().Foreground(t.Secondary),
		Text:     lipgloss.NewStyle().Foreground(t.Primary),
		Help:     lipgloss.NewStyle().Foreground(t.Muted),
		Error:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(t.BorderActive).Background(t.Highlight),
	}
}
