// Package logger builds the application's structured logger.
//
// It configures log/slog with a JSON or text handler, a process-wide level
// that can be changed at runtime, and redaction of sensitive attributes
// (bearer tokens, encryption keys, passwords) before they reach the output.
package logger
