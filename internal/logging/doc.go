// Package logging assembles the structured slog loggers used across
// hypergctl commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and standardizes the attribute keys that tag log lines with the
// originating component, RPC command, and correlation ID. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits diagnostics with the same shape and routing.
package logging
