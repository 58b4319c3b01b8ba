// Package logger provides structured logging configuration using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel is the environment variable that overrides the configured level.
const EnvLevel = "GOVIS_LOG_LEVEL"

// Config holds logger configuration.
type Config struct {
	Level  slog.Level
	Format string    // "text" or "json"
	Output io.Writer // nil means os.Stderr
}

// NewLogger creates a configured slog.Logger.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// DefaultConfig returns text logging at the level named by GOVIS_LOG_LEVEL,
// or INFO when it is unset or invalid.
func DefaultConfig() Config {
	level, ok := LevelFromEnv()
	if !ok {
		level = slog.LevelInfo
	}
	return Config{
		Level:  level,
		Format: "text",
	}
}

// LevelFromEnv reads GOVIS_LOG_LEVEL. ok is false when the variable is unset
// or does not name a level.
func LevelFromEnv() (level slog.Level, ok bool) {
	env := os.Getenv(EnvLevel)
	if env == "" {
		return slog.LevelInfo, false
	}
	return ParseLevel(env)
}

// ParseLevel maps debug, info, warn (or warning) and error, in any case, to a
// slog level. The empty string is INFO.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
