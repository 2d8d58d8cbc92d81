// Package logging defines the structured-logging interface shared by the
// server and the CLI. The server logs JSON through zerolog, the CLI logs
// text through slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key/value pairs, e.g.:
//
//	log.Info(ctx, "user registered", "user_id", id, "store", "postgres")
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Nop discards everything. Handy for tests and optional collaborators.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
