// Package logging provides the service's structured logger.
package logging

import (
	"io"
	"log/slog"
)

// NewStructuredLogger creates a JSON slog logger at the given level.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewCLILogger creates a plain-text logger for command-line output.
func NewCLILogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
