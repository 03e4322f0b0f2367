// Package render turns assistant replies into styled terminal output.
package render

// Options configures the markdown renderer behavior.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour standard style name or the path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool

	// TableWrap enables word wrap in table cells
	TableWrap bool

	// InlineTableLinks renders links inline in tables
	InlineTableLinks bool

	// baseStyle is the configured style that mode swaps are derived from
	baseStyle string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	o.baseStyle = ""
	return o
}

// WithDarkMode swaps the dark and light standard styles to match the
// terminal mode. The swap is always derived from the configured style, so
// switching back restores it. Other styles are left alone.
func (o Options) WithDarkMode(dark bool) Options {
	if o.baseStyle == "" {
		o.baseStyle = o.Style
	}
	o.Style = o.baseStyle
	switch {
	case dark && o.Style == StyleLight:
		o.Style = StyleDark
	case !dark && o.Style == StyleDark:
		o.Style = StyleLight
	case !dark && o.Style == StyleTokyoNight:
		o.Style = StyleLight
	}
	return o
}
