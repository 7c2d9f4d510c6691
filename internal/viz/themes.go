package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the bodies and the chrome around them.
type Theme struct {
	Name   string
	Bodies []lipgloss.Color
	Vector lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:   "classic",
		Bodies: []lipgloss.Color{"#D81B60", "#1E88E5", "#FFC107"},
		Vector: lipgloss.Color("#aaaaaa"),
		Accent: lipgloss.Color("#00ffff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Bodies: []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00"},
		Vector: lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Bodies: []lipgloss.Color{"#0077be", "#00a8cc", "#ffd700"},
		Vector: lipgloss.Color("#4488aa"),
		Accent: lipgloss.Color("#00a8cc"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// Next is the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeClassic
}

// BodyColor cycles the palette for systems with more bodies than colors.
func (t Theme) BodyColor(i int) lipgloss.Color {
	return t.Bodies[i%len(t.Bodies)]
}

// Inks are the canvas styles: one per body, then the vector color.
func (t Theme) Inks(bodies int) []lipgloss.Style {
	inks := make([]lipgloss.Style, bodies+1)
	for i := 0; i < bodies; i++ {
		inks[i] = lipgloss.NewStyle().Foreground(t.BodyColor(i))
	}
	inks[bodies] = lipgloss.NewStyle().Foreground(t.Vector)
	return inks
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
