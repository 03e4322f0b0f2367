package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/supportchat/internal/render"
)

// NewStatusCmd creates the session-status diagnostic command
func NewStatusCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var rawFlag bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the assistant session status",
		Long: `Query the service's session-status endpoint and print the result.

This is a diagnostic only; it does not start or change a conversation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), deps, flags, rawFlag)
		},
	}

	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw response body")
	return cmd
}

func runStatus(ctx context.Context, deps *Dependencies, flags *globalFlags, raw bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := openRuntime(ctx, deps, flags, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	status, err := rt.client.SessionStatus(ctx)
	if err != nil {
		rt.logger.Error().Err(err).Msg("session status failed")
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Session status failed"))
		return fmt.Errorf("session status failed: %w", err)
	}

	rt.logger.Info().
		Str("session_id", status.SessionID).
		Bool("active", status.Active).
		Msg("session status")

	if raw {
		fmt.Fprintln(deps.Stdout, status.Raw)
		return nil
	}

	theme := render.ThemeForMode(rt.cfg.TUITheme, rt.cfg.DarkMode)
	keyStyle := lipgloss.NewStyle().Foreground(theme.TextDim).Width(10)
	okStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(theme.Warning).Bold(true)

	state := offStyle.Render("inactive")
	if status.Active {
		state = okStyle.Render("active")
	}
	sessionID := status.SessionID
	if sessionID == "" {
		sessionID = "-"
	}

	fmt.Fprintln(deps.Stdout, keyStyle.Render("Service")+rt.client.BaseURL())
	fmt.Fprintln(deps.Stdout, keyStyle.Render("Session")+sessionID)
	fmt.Fprintln(deps.Stdout, keyStyle.Render("State")+state)
	return nil
}
