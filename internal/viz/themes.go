package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the side panel; bodies keep their palette colors.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	TitleTo lipgloss.Color
	Accent  lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Muted   lipgloss.Color
	Graph   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
}

var (
	ThemePit = Theme{
		Name:    "pit",
		Title:   lipgloss.Color("#ff6b6b"),
		TitleTo: lipgloss.Color("#48dbfb"),
		Accent:  lipgloss.Color("#feca57"),
		Label:   lipgloss.Color("#888899"),
		Value:   lipgloss.Color("#e0e0e0"),
		Muted:   lipgloss.Color("#555566"),
		Graph:   lipgloss.Color("#1dd1a1"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Title:   lipgloss.Color("#00ff00"),
		TitleTo: lipgloss.Color("#88ff88"),
		Accent:  lipgloss.Color("#88ff88"),
		Label:   lipgloss.Color("#00aa00"),
		Value:   lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Graph:   lipgloss.Color("#00cc00"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		TitleTo: lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
		Label:   lipgloss.Color("#888888"),
		Value:   lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#555555"),
		Graph:   lipgloss.Color("#cccccc"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Title:   lipgloss.Color("#0077be"),
		TitleTo: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Label:   lipgloss.Color("#4488aa"),
		Value:   lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#335577"),
		Graph:   lipgloss.Color("#00a8cc"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{ThemePit, ThemeRetroGreen, ThemeMinimal, ThemeOcean}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme cycles through Themes.
func NextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
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
