// Package main provides the entry point for hllrcon.
//
// hllrcon is a remote console client for Hell Let Loose game servers.
// It supports an interactive console and one-shot command execution.
//
// Usage:
//
//	hllrcon [global flags]                      interactive console
//	hllrcon [global flags] exec COMMAND...      run commands and exit
//	hllrcon profile add --host H --port P NAME  save a server
//
// Connection settings come from flags, RCON_* environment variables,
// a .env file or a saved profile, in that order of precedence.
package main
