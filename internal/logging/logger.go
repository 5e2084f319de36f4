// Package logging defines a minimal structured-logging interface used across
// the client. Implementations wrap log/slog or zerolog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key-value pairs, e.g.:
//
//	log.Info(ctx, "session checked", "state", state, "user", email)
type Logger interface {
	// Debug logs diagnostic details (SDK moments, request ids).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}

// Supported values for the log format setting.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. "json" and "console" select the zerolog
// back-end, anything else falls back to the slog text handler.
func New(w io.Writer, format string, level int) Logger {
	if w == nil {
		w = os.Stderr
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewZerologLogger(w, false, level)
	case FormatConsole:
		return NewZerologLogger(w, true, level)
	default:
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})
		return NewSlogLogger(slog.New(h))
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
