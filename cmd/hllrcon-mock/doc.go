// Package main provides the entry point for hllrcon-mock.
//
// hllrcon-mock is a local server speaking the Hell Let Loose RCON
// protocol, for development and testing of RCON clients:
//
//   - per-connection XOR key, Login, canned command replies
//   - optional hot-reloaded response table (YAML)
//   - HTTP health, readiness, status and Prometheus metrics endpoints
//
// Usage:
//
//	hllrcon-mock --password secret
//	hllrcon-mock --config /path/to/mock.yaml
package main
