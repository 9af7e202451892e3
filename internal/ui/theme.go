package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/books"
)

// Theme is a named palette. Genre badges reuse the palette's hues instead of
// carrying a color table of their own.
type Theme struct {
	Name string

	Background string // behind modals
	Surface    string // header and command bar
	SurfaceAlt string // list box
	FocusBg    string // focused box, log view

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Extra hues that only appear on genre badges.
	Violet string
	Orange string
}

// GenreColor returns the badge color for genre, or Muted for anything
// outside the known set.
func (t Theme) GenreColor(genre books.Genre) string {
	switch genre {
	case books.GenreFiction:
		return t.Accent
	case books.GenreNonFiction:
		return t.Info
	case books.GenreMystery:
		return t.Violet
	case books.GenreBiography:
		return t.Orange
	case books.GenreRomance:
		return t.Danger
	case books.GenreNovel:
		return t.Success
	case books.GenreScientific:
		return t.Warning
	default:
		return t.Muted
	}
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).
			Background(lipgloss.Color(t.Surface)).
			Padding(0, 1),
		Logo: fg(t.Warning).Bold(true),

		theme: t,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	theme Theme
}

// GenreStyle returns a badge style for the given genre.
func (s Styles) GenreStyle(genre books.Genre) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(s.theme.GenreColor(genre))).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles paint bgColor
// instead of inheriting the terminal background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	return Styles{
		Text:        s.Text.Background(bg),
		MutedText:   s.MutedText.Background(bg),
		FaintText:   s.FaintText.Background(bg),
		AccentText:  s.AccentText.Background(bg),
		SuccessText: s.SuccessText.Background(bg),
		WarningText: s.WarningText.Background(bg),
		DangerText:  s.DangerText.Background(bg),
		InfoText:    s.InfoText.Background(bg),
		Header:      s.Header.Background(bg),
		Logo:        s.Logo.Background(bg),
		theme:       s.theme,
	}
}

var themes = []Theme{nightfoxTheme(), kanagawaTheme()}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, t := range themes {
		if t.Name == current {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:          "Nightfox",
		Background:    "#131a24",
		Surface:       "#192330",
		SurfaceAlt:    "#212e3f",
		FocusBg:       "#29394f",
		SelectionBg:   "#2b3b51",
		SelectionText: "#cdcecf",
		Border:        "#39506d",
		BorderFocus:   "#719cd6",
		Text:          "#cdcecf",
		Muted:         "#738091",
		Faint:         "#71839b",
		Accent:        "#719cd6",
		Success:       "#81b29a",
		Warning:       "#dbc074",
		Danger:        "#c94f6d",
		Info:          "#63cdcf",
		Violet:        "#9d79d6",
		Orange:        "#f4a261",
	}
}

// https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	return Theme{
		Name:          "Kanagawa",
		Background:    "#16161D",
		Surface:       "#1F1F28",
		SurfaceAlt:    "#2A2A37",
		FocusBg:       "#2A2A37",
		SelectionBg:   "#2D4F67",
		SelectionText: "#DCD7BA",
		Border:        "#54546D",
		BorderFocus:   "#7E9CD8",
		Text:          "#DCD7BA",
		Muted:         "#C8C093",
		Faint:         "#727169",
		Accent:        "#7E9CD8",
		Success:       "#98BB6C",
		Warning:       "#E6C384",
		Danger:        "#E46876",
		Info:          "#7FB4CA",
		Violet:        "#957FB8",
		Orange:        "#FFA066",
	}
}
