// Package httpserver provides the HTTP side channel of the mock server.
//
// Endpoints:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness
//   - GET /readyz: readiness (503 until the RCON listener is up)
//   - GET /status: open RCON connections as JSON
//
// Every request passes through Recover, RequestID and, when enabled,
// a per-IP rate limit and an audit log line.
package httpserver
