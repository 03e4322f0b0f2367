package commands

import (
	"context"
	"fmt"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"

	"github.com/diogo/supportchat/internal/api"
	"github.com/diogo/supportchat/internal/browser"
	"github.com/diogo/supportchat/internal/chat"
	"github.com/diogo/supportchat/internal/config"
	"github.com/diogo/supportchat/internal/logging"
)

// runtime bundles what a command needs to talk to the service
type runtime struct {
	cfg        config.Config
	logger     zerolog.Logger
	logCloser  io.Closer
	client     api.ClientInterface
	dispatcher *chat.Dispatcher
}

// Close releases the client and the log file
func (r *runtime) Close() {
	if r.client != nil {
		r.client.Close()
	}
	if r.logCloser != nil {
		_ = r.logCloser.Close()
	}
}

// openRuntime loads configuration, sets up logging, imports browser cookies
// when asked to, and creates the client and a fresh conversation.
// console mirrors the log to stderr when --verbose is set.
func openRuntime(ctx context.Context, deps *Dependencies, flags *globalFlags, console bool) (*runtime, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := flags.apply(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closer, err := newLogger(cfg, deps, flags.verbose && console)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, logCloser: closer}

	clientOpts := []api.ClientOption{
		api.WithAskPath(cfg.AskPath),
		api.WithStatusPath(cfg.StatusPath),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(logger.With().Str("component", "api").Logger()),
	}
	if cookies := importCookies(ctx, deps, cfg, logger); len(cookies) > 0 {
		clientOpts = append(clientOpts, api.WithCookies(cookies))
	}

	client, err := deps.NewClient(cfg.BaseURL, clientOpts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	rt.client = client
	rt.dispatcher = chat.NewDispatcher(chat.NewSession(), client,
		chat.WithLogger(logger.With().Str("component", "chat").Logger()))

	logger.Debug().
		Str("base_url", cfg.BaseURL).
		Str("ask_path", cfg.AskPath).
		Dur("timeout", cfg.Timeout()).
		Msg("runtime ready")

	return rt, nil
}

func newLogger(cfg config.Config, deps *Dependencies, console bool) (zerolog.Logger, io.Closer, error) {
	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	opts := logging.Options{Level: cfg.LogLevel, File: logPath}
	if console {
		opts.Console = deps.Stderr
	}
	logger, closer, err := logging.New(opts)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closer, nil
}

// importCookies seeds the session from a browser. Failures are logged and
// the chat starts with an empty jar.
func importCookies(ctx context.Context, deps *Dependencies, cfg config.Config, logger zerolog.Logger) []*fhttp.Cookie {
	if cfg.BrowserCookies == "" {
		return nil
	}
	b, err := browser.ParseBrowser(cfg.BrowserCookies)
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring browser_cookies")
		return nil
	}
	result, err := deps.ExtractCookies(ctx, b, cfg.BaseURL)
	if err != nil {
		logger.Warn().Err(err).Str("browser", b.String()).Msg("browser cookie import failed")
		if b == browser.BrowserAuto {
			logger.Debug().Strs("available", browser.ListAvailableBrowsers(ctx)).Msg("browser cookie stores")
		}
		return nil
	}
	logger.Info().
		Str("browser", result.BrowserName).
		Str("domain", result.Domain).
		Int("count", len(result.Cookies)).
		Msg("imported browser cookies")
	return result.Cookies
}
