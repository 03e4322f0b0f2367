// Package config handles configuration for supportchat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/supportchat/internal/models"
)

// EnvHome overrides the configuration directory
const EnvHome = "SUPPORTCHAT_HOME"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" env:"STYLE"`                           // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" env:"ENABLE_EMOJI"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" env:"PRESERVE_NEWLINES"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" env:"TABLE_WRAP"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" env:"INLINE_TABLE_LINKS"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the address of the assistant service. Required.
	BaseURL    string `json:"base_url" env:"SUPPORTCHAT_BASE_URL"`
	AskPath    string `json:"ask_path" env:"SUPPORTCHAT_ASK_PATH"`
	StatusPath string `json:"status_path" env:"SUPPORTCHAT_STATUS_PATH"`
	// RequestTimeout in seconds. 0 disables the client-side timeout.
	RequestTimeout int `json:"request_timeout" env:"SUPPORTCHAT_REQUEST_TIMEOUT"`
	// BrowserCookies names a browser to seed the session cookie jar from.
	// Empty disables the import.
	BrowserCookies  string         `json:"browser_cookies,omitempty" env:"SUPPORTCHAT_BROWSER_COOKIES"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"SUPPORTCHAT_THEME"`
	DarkMode        bool           `json:"dark_mode" env:"SUPPORTCHAT_DARK_MODE"`
	LogLevel        string         `json:"log_level" env:"SUPPORTCHAT_LOG_LEVEL"`
	LogFile         string         `json:"log_file,omitempty" env:"SUPPORTCHAT_LOG_FILE"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"SUPPORTCHAT_COPY_TO_CLIPBOARD"`
	Markdown        MarkdownConfig `json:"markdown,omitempty" envPrefix:"SUPPORTCHAT_MARKDOWN_"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		AskPath:         models.DefaultAskPath,
		StatusPath:      models.DefaultStatusPath,
		RequestTimeout:  0,
		TUITheme:        "midnight",
		DarkMode:        true,
		LogLevel:        "info",
		CopyToClipboard: false,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Validate checks that the configuration can be used to reach the service
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url is required (set it with 'supportchat config set base_url <url>' or %s)", "SUPPORTCHAT_BASE_URL")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url: missing host")
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".supportchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file from config, or the default location
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "supportchat.log"), nil
}

// LoadConfig loads the configuration file and applies environment overrides.
// A .env file in the working directory is read first when present.
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to read .env file: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadFile loads the configuration from disk without environment overrides
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with any SUPPORTCHAT_* environment variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps settable keys to functions updating the config
var setters = map[string]func(cfg *Config, value string) error{
	"base_url": func(cfg *Config, v string) error {
		cfg.BaseURL = strings.TrimRight(v, "/")
		return nil
	},
	"ask_path":        func(cfg *Config, v string) error { cfg.AskPath = v; return nil },
	"status_path":     func(cfg *Config, v string) error { cfg.StatusPath = v; return nil },
	"browser_cookies": func(cfg *Config, v string) error { cfg.BrowserCookies = v; return nil },
	"tui_theme":       func(cfg *Config, v string) error { cfg.TUITheme = v; return nil },
	"log_level":       func(cfg *Config, v string) error { cfg.LogLevel = strings.ToLower(v); return nil },
	"log_file":        func(cfg *Config, v string) error { cfg.LogFile = v; return nil },
	"markdown.style":  func(cfg *Config, v string) error { cfg.Markdown.Style = v; return nil },
	"request_timeout": func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("request_timeout must be a number of seconds: %w", err)
		}
		cfg.RequestTimeout = n
		return nil
	},
	"dark_mode":         boolSetter(func(cfg *Config, b bool) { cfg.DarkMode = b }),
	"copy_to_clipboard": boolSetter(func(cfg *Config, b bool) { cfg.CopyToClipboard = b }),
}

func boolSetter(apply func(cfg *Config, b bool)) func(cfg *Config, value string) error {
	return func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		apply(cfg, b)
		return nil
	}
}

// Set updates a single key on cfg
func Set(cfg *Config, key, value string) error {
	setter, ok := setters[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return setter(cfg, value)
}

// Keys returns the settable configuration keys
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
