// Package observability builds the structured logger and the Prometheus
// metrics shared by the rest of the server.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Supported log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel converts a textual level such as "debug" or "WARN" into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger creates a logger writing to w. Callers on the stdio transport
// must pass stderr, since stdout carries protocol messages.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
