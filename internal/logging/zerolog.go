package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. When the context carries a logger
// (placed there by the HTTP logging middleware) that one is used, so request
// scoped fields such as trace_id flow into service level log lines.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// NewJSONLogger builds the server logger. Unknown level names fall back to
// info.
func NewJSONLogger(w io.Writer, level string) *ZerologLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return NewZerologLogger(zerolog.New(w).Level(lvl).With().Timestamp().Logger())
}

// Zerolog exposes the underlying logger for middleware that needs the native
// API.
func (z *ZerologLogger) Zerolog() zerolog.Logger {
	return z.l
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, zerolog.DebugLevel, msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, zerolog.InfoLevel, msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, zerolog.WarnLevel, msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, zerolog.ErrorLevel, msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(pairs(args)).Logger()}
}

func (z *ZerologLogger) emit(ctx context.Context, level zerolog.Level, msg string, args []any) {
	l := z.l
	if ctx != nil {
		if fromCtx := zerolog.Ctx(ctx); fromCtx != nil && fromCtx.GetLevel() != zerolog.Disabled {
			l = fromCtx.With().Logger()
		}
	}
	l.WithLevel(level).Fields(pairs(args)).Msg(msg)
}

// pairs turns slog-style key/value args into a zerolog field map. A dangling
// key is logged under !BADKEY like slog does.
func pairs(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if err, isErr := args[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
