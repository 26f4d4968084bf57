// Package logging provides structured logging for otaboot.
//
// It wraps log/slog with level parsing, format selection (JSON or text)
// and default service/version fields. Components derive their own
// loggers via With("component", name) so every line is attributable.
package logging
