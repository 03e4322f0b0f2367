// Package logging sets up the diagnostic logger.
//
// The chat TUI owns the terminal, so diagnostics are written to a file.
// Non-interactive commands can mirror them to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the diagnostic logger
type Options struct {
	Level   string    // trace, debug, info, warn, error, disabled
	File    string    // log file path; empty disables file output
	Console io.Writer // optional human readable mirror (usually os.Stderr)
}

// New builds a logger from opts. The returned closer releases the log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "supportchat").
		Logger()

	return logger, closer, nil
}

// ParseLevel converts a level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
