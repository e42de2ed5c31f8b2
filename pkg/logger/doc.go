// Package logger builds configured log/slog loggers with functional
// options for level, format, output, and static attributes. Services
// construct one logger at startup and pass it down explicitly.
package logger
