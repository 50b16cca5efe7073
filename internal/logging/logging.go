// Package logging builds the slog logger. Logs go to a file because the
// terminal belongs to the interactive views.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/balkashynov/todue/internal/config"
)

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// New opens the configured log file and returns a text logger writing to it
// together with the closer for the file. An empty file path discards logs.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	if cfg.File == "" {
		return NewWithWriter(io.Discard, level), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewWithWriter(f, level), f, nil
}

// NewWithWriter returns a text logger at the given level
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
