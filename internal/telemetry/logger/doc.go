// Package logger provides structured logging for hllrcon.
//
// The package wraps log/slog:
//
//   - logger.go: Logger interface, handler setup and the global level
//   - context.go: context-aware logging with session and command IDs
//   - redact.go: sensitive data redaction
//
// Passwords, the login command and encrypted profile secrets are masked
// before they reach any handler. Raw key bytes are never logged; sessions
// log a key fingerprint instead.
package logger
