// Package commands provides CLI commands for supportchat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/config"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	baseURL        string
	verbose        bool
	browserCookies string
	theme          string
	light          bool
}

// apply overrides cfg with the flags that were given
func (f *globalFlags) apply(cfg *config.Config) error {
	if f.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(f.baseURL, "/")
	}
	if f.browserCookies != "" {
		if _, err := browser.ParseBrowser(f.browserCookies); err != nil {
			return err
		}
		cfg.BrowserCookies = f.browserCookies
	}
	if f.theme != "" {
		cfg.TUITheme = f.theme
	}
	if f.light {
		cfg.DarkMode = false
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	return nil
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	flags := &globalFlags{}

	var (
		fileFlag       string
		transcriptFlag string
	)

	rootCmd := &cobra.Command{
		Use:   "supportchat [question]",
		Short: "Terminal chat client for the support assistant",
		Long: `supportchat talks to a support-assistant service from the terminal.

Without arguments it opens the interactive chat. With a question, a file
or piped input it asks a single question and prints the classified reply.

Examples:
  supportchat                                  Start interactive chat
  supportchat config set base_url https://assist.example.com
  supportchat "Where is my order?"             Ask a single question
  supportchat -f question.md                   Read the question from a file
  echo "Reset my password" | supportchat       Read the question from stdin
  supportchat status                           Show the service session status`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "supportchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if fileFlag != "" {
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runAsk(cmd.Context(), deps, flags, string(data), askOptions{})
			}

			if len(args) > 0 {
				return runAsk(cmd.Context(), deps, flags, args[0], askOptions{})
			}

			if hasPipedInput(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runAsk(cmd.Context(), deps, flags, string(data), askOptions{})
			}

			return runChat(cmd.Context(), deps, flags, transcriptFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Address of the assistant service (overrides base_url)")
	rootCmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log debug details (mirrored to stderr outside the chat)")
	rootCmd.PersistentFlags().StringVar(&flags.browserCookies, "browser-cookies", "",
		"Import the service session from a browser (auto, chrome, firefox, edge, chromium, opera)")
	rootCmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "TUI theme name")
	rootCmd.PersistentFlags().BoolVar(&flags.light, "light", false, "Start in light mode")

	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from file")
	rootCmd.Flags().StringVar(&transcriptFlag, "transcript", "", "Write the conversation to this file on exit (.md or .json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.AddCommand(NewChatCmd(deps, flags))
	rootCmd.AddCommand(NewAskCmd(deps, flags))
	rootCmd.AddCommand(NewStatusCmd(deps, flags))
	rootCmd.AddCommand(NewConfigCmd(deps))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		var exitErr *exitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		}
		os.Exit(1)
	}
}

// exitError is a failure the user has already been shown; only the exit
// status reports it.
type exitError struct {
	err error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// hasPipedInput reports whether r carries piped data rather than a terminal
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
