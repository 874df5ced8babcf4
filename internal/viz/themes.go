package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours the terminal UI paints with.
type Theme struct {
	Name   string
	Dots   lipgloss.Color
	Frame  lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeMonochrome = Theme{
		Name:   "mono",
		Dots:   lipgloss.Color("#ffffff"),
		Frame:  lipgloss.Color("#444444"),
		Label:  lipgloss.Color("#888888"),
		Value:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#555555"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Dots:   lipgloss.Color("#00ff00"), // Green phosphor
		Frame:  lipgloss.Color("#005500"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ffff00"),
		Muted:  lipgloss.Color("#004400"),
	}

	ThemeAmber = Theme{
		Name:   "amber",
		Dots:   lipgloss.Color("#ffb000"),
		Frame:  lipgloss.Color("#553300"),
		Label:  lipgloss.Color("#aa7700"),
		Value:  lipgloss.Color("#ffd27f"),
		Accent: lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#442200"),
	}

	Themes = []Theme{ThemeMonochrome, ThemeRetroGreen, ThemeAmber}
)

// GetTheme returns a theme by name, falling back to monochrome.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMonochrome
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
