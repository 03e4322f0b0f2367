package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/config"
)

func TestImportCookies(t *testing.T) {
	tests := []struct {
		name      string
		browser   string
		extract   func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error)
		wantCount int
	}{
		{
			name:      "disabled",
			browser:   "",
			wantCount: 0,
		},
		{
			name:      "invalid browser is ignored",
			browser:   "mosaic",
			wantCount: 0,
		},
		{
			name:    "extraction failure is ignored",
			browser: "chrome",
			extract: func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error) {
				return nil, assert.AnError
			},
			wantCount: 0,
		},
		{
			name:    "cookies imported",
			browser: "firefox",
			extract: func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error) {
				return &browser.ExtractResult{
					BrowserName: b.String(),
					Domain:      "example.com",
					Cookies: []*fhttp.Cookie{
						{Name: "sid", Value: "abc", Domain: ".example.com", Path: "/"},
					},
				}, nil
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			deps := &Dependencies{
				ExtractCookies: func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error) {
					called = true
					if tt.extract == nil {
						t.Fatal("unexpected extraction")
					}
					return tt.extract(ctx, b, baseURL)
				},
			}
			cfg := config.DefaultConfig()
			cfg.BaseURL = "https://help.example.com"
			cfg.BrowserCookies = tt.browser

			cookies := importCookies(context.Background(), deps, cfg, zerolog.Nop())
			assert.Len(t, cookies, tt.wantCount)
			assert.Equal(t, tt.extract != nil, called)
		})
	}
}

func TestOpenRuntime_CookieFailureDoesNotBlock(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	env.cfg.BrowserCookies = "chrome"

	rt, err := openRuntime(context.Background(), env.deps, &globalFlags{}, false)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 4, env.clientOpts)
	assert.NotNil(t, rt.dispatcher)
	assert.Equal(t, 0, rt.dispatcher.Session().Len())
}

func TestOpenRuntime_CookiesPassedToClient(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	env.cfg.BrowserCookies = "edge"
	env.deps.ExtractCookies = func(ctx context.Context, b browser.SupportedBrowser, baseURL string) (*browser.ExtractResult, error) {
		return &browser.ExtractResult{Cookies: []*fhttp.Cookie{{Name: "sid", Value: "1"}}}, nil
	}

	rt, err := openRuntime(context.Background(), env.deps, &globalFlags{}, false)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 5, env.clientOpts)
}

func TestOpenRuntime_InvalidConfig(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	env.cfg.BaseURL = "assistant.test"

	_, err := openRuntime(context.Background(), env.deps, &globalFlags{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base_url")
	assert.Empty(t, env.clientURL)
}

func TestOpenRuntime_WritesLogFile(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})
	env.cfg.LogFile = filepath.Join(env.dir, "logs", "supportchat.log")

	rt, err := openRuntime(context.Background(), env.deps, &globalFlags{verbose: true}, false)
	require.NoError(t, err)
	rt.Close()

	data, err := os.ReadFile(env.cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "runtime ready")
	assert.Empty(t, env.stderr.String())
}

func TestOpenRuntime_VerboseMirrorsToStderr(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	rt, err := openRuntime(context.Background(), env.deps, &globalFlags{verbose: true}, true)
	require.NoError(t, err)
	rt.Close()

	assert.Contains(t, env.stderr.String(), "runtime ready")
}
