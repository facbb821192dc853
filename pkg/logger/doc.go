// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package: text output for development and
// JSON for production, with the environment attached to every record.
package logger
