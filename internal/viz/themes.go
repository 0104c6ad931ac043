package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the two spin states and the panel header.
type Theme struct {
	Name     string
	SpinUp   lipgloss.Color
	SpinDown lipgloss.Color
	Accent   lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:     "minimal",
		SpinUp:   lipgloss.Color("#f5f5f5"),
		SpinDown: lipgloss.Color("#1e3a8a"),
		Accent:   lipgloss.Color("#0088ff"),
	}

	// red/blue, as in most published domain pictures
	ThemeThermal = Theme{
		Name:     "thermal",
		SpinUp:   lipgloss.Color("#d7301f"),
		SpinDown: lipgloss.Color("#2b8cbe"),
		Accent:   lipgloss.Color("#fdae61"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		SpinUp:   lipgloss.Color("#ffffff"),
		SpinDown: lipgloss.Color("#000000"),
		Accent:   lipgloss.Color("#aaaaaa"),
	}

	ThemePhosphor = Theme{
		Name:     "phosphor",
		SpinUp:   lipgloss.Color("#00ff00"),
		SpinDown: lipgloss.Color("#002200"),
		Accent:   lipgloss.Color("#88ff88"),
	}

	CurrentTheme = ThemeMinimal

	Themes = []Theme{
		ThemeMinimal,
		ThemeThermal,
		ThemeMono,
		ThemePhosphor,
	}
)

// GetTheme returns the named theme, or the minimal one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
