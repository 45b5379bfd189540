// TUI theme definitions for the chat interface.
package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat interface.
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes. Blue, green and purple share a neutral dark base
// and differ in the accent used for the user's bubbles and highlights.
var (
	// BlueTheme is the default accent theme
	BlueTheme = TUITheme{
		Name:        "blue",
		Description: "Blue accents on a neutral dark base (default)",

		Background: lipgloss.Color("#16181d"),
		Surface:    lipgloss.Color("#22252c"),
		Border:     lipgloss.Color("#3a3f4b"),

		Primary:   lipgloss.Color("#4c8dff"),
		Secondary: lipgloss.Color("#58c07f"),
		Accent:    lipgloss.Color("#7eb4ff"),
		Warning:   lipgloss.Color("#e3b34c"),
		Error:     lipgloss.Color("#e5606e"),

		Text:     lipgloss.Color("#d8dde7"),
		TextDim:  lipgloss.Color("#717886"),
		TextMute: lipgloss.Color("#454b57"),
	}

	// GreenTheme swaps the accent to green
	GreenTheme = TUITheme{
		Name:        "green",
		Description: "Green accents on a neutral dark base",

		Background: lipgloss.Color("#151a16"),
		Surface:    lipgloss.Color("#1f271f"),
		Border:     lipgloss.Color("#37452f"),

		Primary:   lipgloss.Color("#4fbf6b"),
		Secondary: lipgloss.Color("#8fd14f"),
		Accent:    lipgloss.Color("#7ad79a"),
		Warning:   lipgloss.Color("#e3b34c"),
		Error:     lipgloss.Color("#e5606e"),

		Text:     lipgloss.Color("#d9e4d8"),
		TextDim:  lipgloss.Color("#73816f"),
		TextMute: lipgloss.Color("#475243"),
	}

	// PurpleTheme swaps the accent to purple
	PurpleTheme = TUITheme{
		Name:        "purple",
		Description: "Purple accents on a neutral dark base",

		Background: lipgloss.Color("#181521"),
		Surface:    lipgloss.Color("#241f31"),
		Border:     lipgloss.Color("#3e3553"),

		Primary:   lipgloss.Color("#a06bff"),
		Secondary: lipgloss.Color("#cf8fff"),
		Accent:    lipgloss.Color("#b78fff"),
		Warning:   lipgloss.Color("#e3b34c"),
		Error:     lipgloss.Color("#e5606e"),

		Text:     lipgloss.Color("#ded8e7"),
		TextDim:  lipgloss.Color("#7b7189"),
		TextMute: lipgloss.Color("#4d455c"),
	}

	// TokyoNightTheme is based on the Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night color scheme",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}
)

// currentTUITheme holds the currently active TUI theme
var currentTUITheme = BlueTheme

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
		return true
	}
	return false
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	switch name {
	case "blue":
		return BlueTheme, true
	case "green":
		return GreenTheme, true
	case "purple":
		return PurpleTheme, true
	case "tokyonight":
		return TokyoNightTheme, true
	default:
		return TUITheme{}, false
	}
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		BlueTheme,
		GreenTheme,
		PurpleTheme,
		TokyoNightTheme,
	}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
