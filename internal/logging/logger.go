// Package logging defines the structured-logging interface used across the
// wallet. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are slog-style
// alternating keys and values:
//
//	log.Warn(ctx, "bundle entry skipped", "entry", name, "reason", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for conditions the wallet recovers from, such as a skipped
	// bundle entry or an expired bundle.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries args.
	With(args ...any) Logger
}
