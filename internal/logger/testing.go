package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger returns a WARN level text logger on stdout, or a DEBUG one
// when TEST_DEBUG is set.
func NewTestLogger() *slog.Logger {
	cfg := Config{Level: slog.LevelWarn, Format: "text", Output: os.Stdout}
	if os.Getenv("TEST_DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return NewLogger(cfg)
}
