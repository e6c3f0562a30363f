package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TzachiGitHub/pokedex/internal/prefs"
)

// ThemeMode names a palette.
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// ParseThemeMode accepts "light" or "dark" in any case.
func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle returns the other mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ResolveThemeMode picks the starting mode: a stored preference wins, then
// the terminal background, then light.
func ResolveThemeMode(store prefs.Store, darkBackground func() bool) ThemeMode {
	if store != nil {
		if raw, ok := store.Get(prefs.KeyThemeMode); ok {
			if mode, ok := ParseThemeMode(raw); ok {
				return mode
			}
		}
	}
	if darkBackground != nil && darkBackground() {
		return ThemeDark
	}
	return ThemeLight
}

// Theme defines colors for the UI.
type Theme struct {
	Mode ThemeMode

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string
	Border        string

	Text    string
	Muted   string
	Faint   string
	Accent  string // Pokémon red
	Success string
	Warning string
	Danger  string
	Info    string

	// Stat bar colors
	StatHP      string
	StatAttack  string
	StatDefense string
	StatSpeed   string
}

// typeColors is shared by both palettes.
var typeColors = map[string]string{
	"Normal":   "#A8A878",
	"Fire":     "#F08030",
	"Water":    "#6890F0",
	"Electric": "#F8D030",
	"Grass":    "#78C850",
	"Ice":      "#98D8D8",
	"Fighting": "#C03028",
	"Poison":   "#A040A0",
	"Ground":   "#E0C068",
	"Flying":   "#A890F0",
	"Psychic":  "#F85888",
	"Bug":      "#A8B820",
	"Rock":     "#B8A038",
	"Ghost":    "#705898",
	"Dragon":   "#7038F8",
	"Dark":     "#705848",
	"Steel":    "#B8B8D0",
	"Fairy":    "#EE99AC",
}

// TypeColor returns the chip color for a type name, or the muted color.
func (t Theme) TypeColor(typ string) string {
	if c, ok := typeColors[strings.TrimSpace(typ)]; ok {
		return c
	}
	return t.Muted
}

// GetTheme returns the palette for mode; unknown modes get light.
func GetTheme(mode ThemeMode) Theme {
	if mode == ThemeDark {
		return darkTheme()
	}
	return lightTheme()
}

func lightTheme() Theme {
	return Theme{
		Mode: ThemeLight,

		Background: "#F5F5F5",
		Surface:    "#FFFFFF",
		SurfaceAlt: "#EEEEEE",

		SelectionBg:   "#FFCDD2",
		SelectionText: "#212121",
		Border:        "#E0E0E0",

		Text:    "#212121",
		Muted:   "#616161",
		Faint:   "#9E9E9E",
		Accent:  "#E53935",
		Success: "#2E7D32",
		Warning: "#EF6C00",
		Danger:  "#D32F2F",
		Info:    "#1E88E5",

		StatHP:      "#FF5252",
		StatAttack:  "#FF9800",
		StatDefense: "#2196F3",
		StatSpeed:   "#4CAF50",
	}
}

func darkTheme() Theme {
	return Theme{
		Mode: ThemeDark,

		Background: "#121212",
		Surface:    "#1E1E1E",
		SurfaceAlt: "#2A2A2A",

		SelectionBg:   "#3A1F1F",
		SelectionText: "#FFFFFF",
		Border:        "#333333",

		Text:    "#FFFFFF",
		Muted:   "#B0B0B0",
		Faint:   "#6E6E6E",
		Accent:  "#E53935",
		Success: "#66BB6A",
		Warning: "#FFA726",
		Danger:  "#F44336",
		Info:    "#6AB7FF",

		StatHP:      "#FF5252",
		StatAttack:  "#FF9800",
		StatDefense: "#2196F3",
		StatSpeed:   "#4CAF50",
	}
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Surface)).
			Background(lipgloss.Color(t.Accent)).
			Padding(0, 1),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	Badge    lipgloss.Style
}

// TypeChip returns the chip style for a type name.
func (t Theme) TypeChip(typ string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(t.TypeColor(typ))).
		Bold(true).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles carry bgColor,
// so segments joined on one line share an explicit background.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}
