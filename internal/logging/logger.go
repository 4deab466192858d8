// Package logging is the logger abstraction the services depend on. The only
// implementation wraps log/slog; tests use NewNop.
package logging

import "context"

// Logger takes a message plus alternating key/value attributes:
//
//	log.Info(ctx, "task created", "task_id", id, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger that adds args to every record.
	With(args ...any) Logger
}
