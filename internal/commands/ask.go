package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/supportchat/internal/models"
	"github.com/diogo/supportchat/internal/render"
	"github.com/diogo/supportchat/internal/tui"
)

// askOptions holds the flags of a one-shot question
type askOptions struct {
	output string
	copy   bool
	raw    bool
}

// NewAskCmd creates the one-shot ask command
func NewAskCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var opts askOptions
	var fileFlag string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long: `Send one question to the support assistant and print its classified reply.

The question comes from the argument, --file, or stdin. When stdout is not a
terminal only the reply text is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case fileFlag != "":
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				text = string(data)
			case len(args) > 0:
				text = args[0]
			case hasPipedInput(deps.Stdin):
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			default:
				return fmt.Errorf("no question given")
			}
			return runAsk(cmd.Context(), deps, flags, text, opts)
		},
	}

	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the question from file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply text to file")
	cmd.Flags().BoolVarP(&opts.copy, "copy", "c", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")

	return cmd
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := render.GradientColors[s.frame%len(render.GradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := render.GradientColors[(s.frame+i)%len(render.GradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3b4261")).Render("○"))
		}
	}

	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, s.message, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopAndWait() {
	s.stopOnce()
	<-s.done
}

// runAsk runs one turn outside the TUI and prints the reply.
// On a transport failure it prints the fallback reply like any other turn;
// the cause goes to the log only and the command exits non-zero.
func runAsk(ctx context.Context, deps *Dependencies, flags *globalFlags, text string, opts askOptions) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := openRuntime(ctx, deps, flags, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	decorated := !opts.raw && opts.output == "" && deps.IsTTY()

	question, _ := rt.dispatcher.Begin(text)

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, models.AssistantName+" is typing")
		spin.start()
	}

	startTime := time.Now()
	reply, askErr := rt.dispatcher.Ask(ctx, question)
	rt.logger.Debug().Dur("took", time.Since(startTime)).Msg("ask finished")

	if spin != nil {
		spin.stopAndWait()
	}

	msg, _ := rt.dispatcher.Settle(reply, askErr)
	if askErr != nil {
		printReply(deps, rt, msg, decorated)
		return &exitError{err: fmt.Errorf("request failed: %w", askErr)}
	}

	if opts.copy || rt.cfg.CopyToClipboard {
		if err := deps.Clipboard(msg.Text); err != nil {
			rt.logger.Warn().Err(err).Msg("clipboard copy failed")
			fmt.Fprintf(deps.Stderr, "⚠ Failed to copy to clipboard: %v\n", err)
		} else if decorated {
			fmt.Fprintln(deps.Stderr, "✓ Copied to clipboard")
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(msg.Text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(deps.Stderr, "✓ Reply saved to %s\n", opts.output)
		return nil
	}

	printReply(deps, rt, msg, decorated)
	return nil
}

// printReply writes an assistant message to stdout, styled when decorated
func printReply(deps *Dependencies, rt *runtime, msg models.Message, decorated bool) {
	if !decorated {
		fmt.Fprintln(deps.Stdout, msg.Text)
		return
	}
	theme := render.ThemeForMode(rt.cfg.TUITheme, rt.cfg.DarkMode)
	fmt.Fprintln(deps.Stdout, renderReply(msg, theme, render.OptionsFromConfig(rt.cfg), getTerminalWidth()))
}

// renderReply draws a classified reply the way the chat does
func renderReply(msg models.Message, theme render.TUITheme, mdOpts render.Options, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	tone := render.ToneFor(msg.Classification)
	color := theme.ToneColor(tone)
	if tone == render.ToneNeutral {
		color = theme.Primary
	}

	label := "✦ " + models.AssistantName
	if l := msg.Classification.Label(); l != "" {
		label += " · " + toneLabel(tone, l)
	}
	labelStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	body := render.MarkdownOrPlain(msg.Text, mdOpts.WithWidth(contentWidth))
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1).
		Width(bubbleWidth).
		Render(body)

	return labelStyle.Render(label) + "\n" + bubble
}

// toneLabel prefixes a classification label with its icon
func toneLabel(tone render.Tone, label string) string {
	if icon := render.ToneIcon(tone); icon != "" {
		return icon + " " + label
	}
	return label
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}
