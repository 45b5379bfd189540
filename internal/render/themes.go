package render

// Glamour style names accepted by Options.Style.
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// IsBuiltinStyle reports whether style names a bundled glamour style.
func IsBuiltinStyle(style string) bool {
	switch style {
	case StyleDark, StyleLight, "dracula", "notty", "ascii":
		return true
	default:
		return false
	}
}

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the markdown styles a user can pick from.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark style (default)"},
		{Name: StyleLight, Description: "Light style for bright terminals"},
		{Name: "dracula", Description: "Dracula color scheme"},
		{Name: "notty", Description: "Plain text (no styling)"},
		{Name: "ascii", Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names for selection.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}
