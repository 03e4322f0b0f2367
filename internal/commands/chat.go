package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/supportchat/internal/render"
	"github.com/diogo/supportchat/internal/transcript"
	"github.com/diogo/supportchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var transcriptFlag string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the support assistant.

Enter sends the message. Alt+Enter (or Ctrl+J) inserts a new line.
Ctrl+Y copies the last reply, Ctrl+T switches between light and dark mode.
Press Esc or Ctrl+C to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps, flags, transcriptFlag)
		},
	}

	cmd.Flags().StringVar(&transcriptFlag, "transcript", "", "Write the conversation to this file on exit (.md or .json)")
	return cmd
}

func runChat(ctx context.Context, deps *Dependencies, flags *globalFlags, transcriptPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := openRuntime(ctx, deps, flags, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := tui.Options{
		Theme:     render.ThemeForMode(rt.cfg.TUITheme, rt.cfg.DarkMode),
		Markdown:  render.OptionsFromConfig(rt.cfg),
		Logger:    rt.logger.With().Str("component", "tui").Logger(),
		Clipboard: deps.Clipboard,
	}

	rt.logger.Info().Str("theme", opts.Theme.Name).Msg("chat started")
	runErr := deps.TUI.RunChat(ctx, rt.dispatcher, rt.client, opts)

	session := rt.dispatcher.Session()
	rt.logger.Info().Int("messages", session.Len()).Msg("chat ended")

	if transcriptPath != "" && session.Len() > 0 {
		tr := transcript.New(rt.client.BaseURL(), session.SessionID(), session.Messages())
		if err := tr.WriteFile(transcriptPath); err != nil {
			rt.logger.Error().Err(err).Str("path", transcriptPath).Msg("transcript export failed")
			if runErr == nil {
				return err
			}
		} else {
			fmt.Fprintf(deps.Stderr, "Transcript saved to %s\n", transcriptPath)
		}
	}

	return runErr
}
