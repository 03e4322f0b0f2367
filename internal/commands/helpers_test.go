package commands

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/chat"
	"github.com/diogo/supportchat/internal/config"
	"github.com/diogo/supportchat/internal/tui"
)

// fakeTUI records the chat it was asked to run and optionally drives it
type fakeTUI struct {
	called bool
	opts   tui.Options
	drive  func(ctx context.Context, d *chat.Dispatcher) error
}

func (f *fakeTUI) RunChat(ctx context.Context, d *chat.Dispatcher, client api.ClientInterface, opts tui.Options) error {
	f.called = true
	f.opts = opts
	if f.drive != nil {
		return f.drive(ctx, d)
	}
	return nil
}

type testEnv struct {
	deps       *Dependencies
	cfg        *config.Config
	mock       *api.MockClient
	tui        *fakeTUI
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	clipboard  []string
	clientURL  string
	clientOpts int
	dir        string
}

func newTestEnv(t *testing.T, mock *api.MockClient) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvHome, dir)

	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://assistant.test"
	cfg.LogFile = filepath.Join(dir, "test.log")

	env := &testEnv{
		cfg:    &cfg,
		mock:   mock,
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		dir:    dir,
	}
	env.deps = &Dependencies{
		LoadConfig: func() (config.Config, error) { return *env.cfg, nil },
		NewClient: func(baseURL string, opts ...api.ClientOption) (api.ClientInterface, error) {
			env.clientURL = baseURL
			env.clientOpts = len(opts)
			return env.mock, nil
		},
		ExtractCookies: func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error) {
			return nil, errors.New("no browser in tests")
		},
		TUI: env.tui,
		Clipboard: func(s string) error {
			env.clipboard = append(env.clipboard, s)
			return nil
		},
		IsTTY:  func() bool { return false },
		Stdout: env.stdout,
		Stderr: env.stderr,
	}
	return env
}
