package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/supportchat/internal/models"
)

func withTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, models.DefaultAskPath, cfg.AskPath)
	assert.Equal(t, models.DefaultStatusPath, cfg.StatusPath)
	assert.True(t, cfg.DarkMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := withTempHome(t)

	got, err := GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)
}

func TestLoadFile_Missing(t *testing.T) {
	withTempHome(t)

	cfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	dir := withTempHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://assist.example.com"
	cfg.RequestTimeout = 20
	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "https://assist.example.com", loaded.BaseURL)
	assert.Equal(t, 20*time.Second, loaded.Timeout())
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := withTempHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600))

	cfg, err := LoadFile()
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestApplyEnv_Overrides(t *testing.T) {
	withTempHome(t)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://from-file.example.com"

	t.Setenv("SUPPORTCHAT_BASE_URL", "http://localhost:8000")
	t.Setenv("SUPPORTCHAT_DARK_MODE", "false")
	t.Setenv("SUPPORTCHAT_MARKDOWN_STYLE", "light")

	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.False(t, cfg.DarkMode)
	assert.Equal(t, "light", cfg.Markdown.Style)
	// Unset variables keep file values
	assert.Equal(t, models.DefaultAskPath, cfg.AskPath)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := withTempHome(t)

	data, err := json.Marshal(map[string]any{"base_url": "https://file.example.com", "log_level": "debug"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600))

	t.Setenv("SUPPORTCHAT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, true},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://example.com" }, true},
		{"missing host", func(c *Config) { c.BaseURL = "http://" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BaseURL = "https://assist.example.com"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, Set(&cfg, "base_url", "https://assist.example.com/"))
	assert.Equal(t, "https://assist.example.com", cfg.BaseURL)

	require.NoError(t, Set(&cfg, "dark_mode", "false"))
	assert.False(t, cfg.DarkMode)

	require.NoError(t, Set(&cfg, "request_timeout", "15"))
	assert.Equal(t, 15, cfg.RequestTimeout)

	require.NoError(t, Set(&cfg, "markdown.style", "light"))
	assert.Equal(t, "light", cfg.Markdown.Style)

	assert.Error(t, Set(&cfg, "dark_mode", "maybe"))
	assert.Error(t, Set(&cfg, "request_timeout", "soon"))
	assert.Error(t, Set(&cfg, "nope", "x"))
}

func TestKeys_Sorted(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "base_url")
	assert.IsIncreasing(t, keys)
}

func TestGetLogPath(t *testing.T) {
	dir := withTempHome(t)

	path, err := GetLogPath(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "supportchat.log"), path)

	cfg := DefaultConfig()
	cfg.LogFile = "/tmp/custom.log"
	path, err = GetLogPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.log", path)
}
