package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/config"
	"github.com/diogo/supportchat/internal/render"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change supportchat settings.

Settings live in config.json inside the configuration directory
(~/.supportchat, or $SUPPORTCHAT_HOME). SUPPORTCHAT_* environment variables
and a .env file in the working directory override the file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the config file",
		Long:  "Change a setting in the config file.\n\nKeys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List TUI themes and markdown styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runConfigThemes(deps)
			return nil
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}
	return nil
}

// runConfigSet edits the file only, so environment overrides are not persisted.
// Validation waits until base_url has been set.
func runConfigSet(deps *Dependencies, key, value string) error {
	if err := validateSetting(key, value); err != nil {
		return err
	}
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := config.Set(&cfg, key, value); err != nil {
		return err
	}
	if cfg.BaseURL != "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "✓ %s = %s\n", strings.ToLower(key), value)
	return nil
}

// validateSetting checks values whose valid set lives outside the config package
func validateSetting(key, value string) error {
	switch strings.ToLower(key) {
	case "tui_theme":
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	case "markdown.style":
		if !render.IsStandardStyle(value) && !strings.HasSuffix(value, ".json") {
			return fmt.Errorf("unknown markdown style %q (available: %s, or a .json file)", value, strings.Join(render.StyleNames(), ", "))
		}
	case "browser_cookies":
		if value != "" {
			if _, err := browser.ParseBrowser(value); err != nil {
				return err
			}
		}
	}
	return nil
}

func runConfigThemes(deps *Dependencies) {
	fmt.Fprintln(deps.Stdout, "TUI themes:")
	for _, t := range render.AvailableTUIThemes() {
		mode := "light"
		if t.Dark {
			mode = "dark"
		}
		fmt.Fprintf(deps.Stdout, "  %-18s %-6s %s\n", t.Name, mode, t.Description)
	}
	fmt.Fprintln(deps.Stdout, "\nMarkdown styles:")
	for _, s := range render.AvailableStyles() {
		fmt.Fprintf(deps.Stdout, "  %-18s %s\n", s.Name, s.Description)
	}
}
