// Package logging provides structured logging helpers built on log/slog.
//
// It defines the canonical attribute keys used across the codebase, typed
// attribute constructors (Operation, Tool, Err, ...), PII-safe helpers for
// logging user emails, and a small Logger interface with an slog adapter
// for packages that only need level-based logging.
package logging
