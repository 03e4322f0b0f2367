package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/supportchat/internal/models"
)

// TUITheme defines the color scheme for the chat interface
type TUITheme struct {
	Name        string
	Description string
	Dark        bool
	// Counterpart names the theme of the opposite mode
	Counterpart string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes, in dark/light pairs
var (
	// MidnightTheme is the default dark theme
	MidnightTheme = TUITheme{
		Name:        "midnight",
		Description: "Midnight - Default dark theme with indigo accents",
		Dark:        true,
		Counterpart: "daylight",

		Background: lipgloss.Color("#111827"),
		Surface:    lipgloss.Color("#1f2937"),
		Border:     lipgloss.Color("#374151"),

		Primary:   lipgloss.Color("#818cf8"),
		Secondary: lipgloss.Color("#38bdf8"),
		Accent:    lipgloss.Color("#c084fc"),
		Success:   lipgloss.Color("#4ade80"),
		Warning:   lipgloss.Color("#facc15"),
		Error:     lipgloss.Color("#f87171"),

		Text:     lipgloss.Color("#f3f4f6"),
		TextDim:  lipgloss.Color("#9ca3af"),
		TextMute: lipgloss.Color("#4b5563"),
	}

	// DaylightTheme is the default light theme
	DaylightTheme = TUITheme{
		Name:        "daylight",
		Description: "Daylight - Default light theme",
		Dark:        false,
		Counterpart: "midnight",

		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f3f4f6"),
		Border:     lipgloss.Color("#d1d5db"),

		Primary:   lipgloss.Color("#4f46e5"),
		Secondary: lipgloss.Color("#0284c7"),
		Accent:    lipgloss.Color("#9333ea"),
		Success:   lipgloss.Color("#15803d"),
		Warning:   lipgloss.Color("#a16207"),
		Error:     lipgloss.Color("#b91c1c"),

		Text:     lipgloss.Color("#111827"),
		TextDim:  lipgloss.Color("#4b5563"),
		TextMute: lipgloss.Color("#9ca3af"),
	}

	// TokyoNightTheme is based on the Tokyo Night color scheme
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",
		Dark:        true,
		Counterpart: "tokyonight-day",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#7dcfff"),
		Accent:    lipgloss.Color("#bb9af7"),
		Success:   lipgloss.Color("#9ece6a"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	// TokyoNightDayTheme is the light variant of Tokyo Night
	TokyoNightDayTheme = TUITheme{
		Name:        "tokyonight-day",
		Description: "Tokyo Night Day - Light theme with blue accents",
		Dark:        false,
		Counterpart: "tokyonight",

		Background: lipgloss.Color("#e1e2e7"),
		Surface:    lipgloss.Color("#d0d5e3"),
		Border:     lipgloss.Color("#a8aecb"),

		Primary:   lipgloss.Color("#2e7de9"),
		Secondary: lipgloss.Color("#007197"),
		Accent:    lipgloss.Color("#9854f1"),
		Success:   lipgloss.Color("#587539"),
		Warning:   lipgloss.Color("#8c6c3e"),
		Error:     lipgloss.Color("#f52a65"),

		Text:     lipgloss.Color("#3760bf"),
		TextDim:  lipgloss.Color("#6172b0"),
		TextMute: lipgloss.Color("#a1a6c5"),
	}

	// CatppuccinMochaTheme is based on Catppuccin Mocha palette
	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",
		Dark:        true,
		Counterpart: "catppuccin-latte",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"), // Blue
		Secondary: lipgloss.Color("#94e2d5"), // Teal
		Accent:    lipgloss.Color("#cba6f7"), // Mauve
		Success:   lipgloss.Color("#a6e3a1"), // Green
		Warning:   lipgloss.Color("#f9e2af"), // Yellow
		Error:     lipgloss.Color("#f38ba8"), // Red

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	// CatppuccinLatteTheme is based on Catppuccin Latte palette
	CatppuccinLatteTheme = TUITheme{
		Name:        "catppuccin-latte",
		Description: "Catppuccin Latte - Light theme with pastel colors",
		Dark:        false,
		Counterpart: "catppuccin",

		Background: lipgloss.Color("#eff1f5"),
		Surface:    lipgloss.Color("#e6e9ef"),
		Border:     lipgloss.Color("#bcc0cc"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#179299"),
		Accent:    lipgloss.Color("#8839ef"),
		Success:   lipgloss.Color("#40a02b"),
		Warning:   lipgloss.Color("#df8e1d"),
		Error:     lipgloss.Color("#d20f39"),

		Text:     lipgloss.Color("#4c4f69"),
		TextDim:  lipgloss.Color("#6c6f85"),
		TextMute: lipgloss.Color("#9ca0b0"),
	}
)

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// ThemeForMode resolves name to a theme of the requested mode, following
// the counterpart link when the named theme belongs to the other mode.
// Unknown names fall back to midnight or daylight.
func ThemeForMode(name string, dark bool) TUITheme {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		if dark {
			return MidnightTheme
		}
		return DaylightTheme
	}
	if theme.Dark == dark {
		return theme
	}
	if other, ok := GetTUIThemeByName(theme.Counterpart); ok {
		return other
	}
	return theme
}

// Toggle returns the counterpart theme, or the theme itself if it has none
func (t TUITheme) Toggle() TUITheme {
	if other, ok := GetTUIThemeByName(t.Counterpart); ok {
		return other
	}
	return t
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		MidnightTheme,
		DaylightTheme,
		TokyoNightTheme,
		TokyoNightDayTheme,
		CatppuccinMochaTheme,
		CatppuccinLatteTheme,
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

// Tone is the visual treatment of an assistant message
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneWarning
	ToneError
	ToneInfo
	ToneAttention
)

// ToneFor maps a classification to its tone. Ticket creation is shown as
// success.
func ToneFor(c models.Classification) Tone {
	switch c {
	case models.ClassificationSuccess, models.ClassificationSupportTicketCreated:
		return ToneSuccess
	case models.ClassificationWarning:
		return ToneWarning
	case models.ClassificationError:
		return ToneError
	case models.ClassificationAnswer:
		return ToneInfo
	case models.ClassificationEmailRequired:
		return ToneAttention
	default:
		return ToneNeutral
	}
}

// ToneColor returns the theme color for a tone
func (t TUITheme) ToneColor(tone Tone) lipgloss.Color {
	switch tone {
	case ToneSuccess:
		return t.Success
	case ToneWarning:
		return t.Warning
	case ToneError:
		return t.Error
	case ToneInfo:
		return t.Secondary
	case ToneAttention:
		return t.Accent
	default:
		return t.Border
	}
}

// ToneIcon returns the marker shown next to a classified message
func ToneIcon(tone Tone) string {
	switch tone {
	case ToneSuccess:
		return "✓"
	case ToneWarning:
		return "!"
	case ToneError:
		return "✗"
	case ToneInfo:
		return "i"
	case ToneAttention:
		return "@"
	default:
		return ""
	}
}

// GradientColors is the palette of the typing animations
var GradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}
