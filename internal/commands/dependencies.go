package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/chat"
	"github.com/diogo/supportchat/internal/config"
	"github.com/diogo/supportchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, dispatcher *chat.Dispatcher, client api.ClientInterface, opts tui.Options) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig returns the effective configuration.
	LoadConfig func() (config.Config, error)

	// NewClient creates the assistant service client.
	NewClient func(baseURL string, opts ...api.ClientOption) (api.ClientInterface, error)

	// ExtractCookies reads the service's cookies from a local browser.
	ExtractCookies func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, dispatcher *chat.Dispatcher, client api.ClientInterface, opts tui.Options) error {
	return tui.RunChat(ctx, dispatcher, client, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig: config.LoadConfig,
		NewClient: func(baseURL string, opts ...api.ClientOption) (api.ClientInterface, error) {
			return api.NewClient(baseURL, opts...)
		},
		ExtractCookies: browser.ExtractSiteCookies,
		TUI:            &DefaultTUI{},
		Clipboard:      clipboard.WriteAll,
		IsTTY:          isStdoutTTY,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
}

// withDefaults fills unset fields so tests only need to provide what they use
func (d *Dependencies) withDefaults() *Dependencies {
	defaults := NewDependencies()
	if d == nil {
		return defaults
	}
	out := *d
	if out.LoadConfig == nil {
		out.LoadConfig = defaults.LoadConfig
	}
	if out.NewClient == nil {
		out.NewClient = defaults.NewClient
	}
	if out.ExtractCookies == nil {
		out.ExtractCookies = defaults.ExtractCookies
	}
	if out.TUI == nil {
		out.TUI = defaults.TUI
	}
	if out.Clipboard == nil {
		out.Clipboard = defaults.Clipboard
	}
	if out.IsTTY == nil {
		out.IsTTY = defaults.IsTTY
	}
	if out.Stdout == nil {
		out.Stdout = defaults.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = defaults.Stderr
	}
	return &out
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
