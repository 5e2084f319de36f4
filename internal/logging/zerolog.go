package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to the Logger interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger creates a zerolog-backed logger. When console is true the
// output is human-readable, otherwise one JSON object per line is written.
// level uses slog numbering (-4 debug, 0 info, 4 warn, 8 error).
func NewZerologLogger(w io.Writer, console bool, level int) *ZerologLogger {
	out := w
	if console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	l := zerolog.New(out).With().Timestamp().Logger().Level(zerologLevel(level))
	return &ZerologLogger{l: l}
}

func zerologLevel(level int) zerolog.Level {
	switch {
	case level <= int(slog.LevelDebug):
		return zerolog.DebugLevel
	case level <= int(slog.LevelInfo):
		return zerolog.InfoLevel
	case level <= int(slog.LevelWarn):
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.l.Debug().Ctx(ctx).Fields(withContextArgs(ctx, fields(args))).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.l.Info().Ctx(ctx).Fields(withContextArgs(ctx, fields(args))).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.l.Warn().Ctx(ctx).Fields(withContextArgs(ctx, fields(args))).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.l.Error().Ctx(ctx).Fields(withContextArgs(ctx, fields(args))).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(fields(args)).Logger()}
}

// fields drops a trailing key without a value; zerolog panics on odd lists.
func fields(args []any) []any {
	if len(args)%2 != 0 {
		return args[:len(args)-1]
	}
	return args
}
