package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger from GO_ENV, LOG_LEVEL and LOG_FORMAT.
// Production defaults to JSON, everything else to text; LOG_FORMAT (json|text)
// overrides that. Every record carries service=certbot.
func NewLogger() *slog.Logger {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if format == "" && env == "production" {
		format = "json"
	}
	return newLogger(os.Stdout, format, parseLevel(os.Getenv("LOG_LEVEL")))
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", "certbot")
}

// parseLevel maps debug|info|warn|error to a slog level; anything else is info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
