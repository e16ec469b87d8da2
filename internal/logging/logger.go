// Package logging is the structured logger every fieldsync component takes
// as a dependency. SlogLogger is the only implementation; it writes text
// records to stderr or to a rotating file, and Nop discards everything.
package logging

import "context"

// Logger is a context-first structured logger. Arguments after msg are
// alternating keys and values:
//
//	log.Info(ctx, "sync finished", "completed", 5, "failed", 0)
//
// Components add their own fields once with With, e.g. the sync engine tags
// every record of a run with its run id.
type Logger interface {
	// Debug is for per-artifact sync steps and reachability probe results.
	Debug(ctx context.Context, msg string, args ...any)

	// Info is for run boundaries and connectivity transitions.
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for artifacts left queued after a failed attempt.
	Warn(ctx context.Context, msg string, args ...any)

	// Error is for failed runs and recovered listener panics.
	Error(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
}
