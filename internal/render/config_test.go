package render

import (
	"testing"

	"github.com/diogo/supportchat/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.InlineTableLinks = true

	opts := OptionsFromConfig(cfg)

	if opts.Style != StyleDark {
		t.Errorf("expected style %q, got %q", StyleDark, opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("expected EnableEmoji=false from config")
	}
	if !opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=true from config")
	}
	if opts.Width != 80 {
		t.Errorf("expected default width 80, got %d", opts.Width)
	}
}

func TestOptionsFromConfig_LightMode(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.DarkMode = false

	if opts := OptionsFromConfig(cfg); opts.Style != StyleLight {
		t.Errorf("expected light style in light mode, got %q", opts.Style)
	}
}

func TestOptionsFromConfig_EnvOverride(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", StyleDracula)

	if opts := OptionsFromConfig(config.DefaultConfig()); opts.Style != StyleDracula {
		t.Errorf("expected style from env, got %q", opts.Style)
	}
}

func TestOptionsFromConfig_EmptyStyle(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = ""

	if opts := OptionsFromConfig(cfg); opts.Style != StyleDark {
		t.Errorf("expected default style, got %q", opts.Style)
	}
}
