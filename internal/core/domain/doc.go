// Package domain defines the core domain models for the RCON client.
//
// Domain models are pure value objects without IO dependencies or
// framework coupling. This package contains:
//
//   - Endpoint: host and port of the game server's RCON listener
//   - Credential: the RCON password, redacted in every textual form
//   - SessionState: the forward-only lifecycle of one connection
//   - CommandExchange: one request/response round trip
//   - Errors: error kinds callers can tell apart with errors.Is
package domain
