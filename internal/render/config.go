package render

import (
	"os"

	"github.com/diogo/supportchat/internal/config"
)

// OptionsFromConfig builds render options from the user configuration.
// GLAMOUR_STYLE, when set, wins over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts.WithDarkMode(cfg.DarkMode)
}
