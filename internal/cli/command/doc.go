// Package command provides CLI command definitions for hllrcon.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags and per-invocation state
//   - connect.go: opening the RCON session
//   - console.go: interactive console (the default action)
//   - exec.go: one-shot and batch command execution
//   - commands.go: server command reference
//   - profile.go: saved server profiles
//   - config.go: effective configuration
//   - version.go: build information
//
// Commands follow a consistent pattern of resolving settings,
// calling the connection manager, and formatting output.
package command
