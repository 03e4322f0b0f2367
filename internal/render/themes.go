package render

import "strings"

// Standard glamour style names, usable without a style file
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the standard markdown styles
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// IsStandardStyle reports whether style names one of the standard styles
// rather than a file path.
func IsStandardStyle(style string) bool {
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}

// StyleNames returns just the style names for selection.
func StyleNames() []string {
	all := AvailableStyles()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.Name
	}
	return names
}

// looksLikePath reports whether a style value should be read from disk
func looksLikePath(style string) bool {
	return strings.HasSuffix(style, ".json") || strings.ContainsAny(style, `/\`)
}
