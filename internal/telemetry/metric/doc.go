// Package metric provides Prometheus metrics for hllrcon.
//
//   - prometheus.go: Registry with client session and mock server metrics
//   - collector.go: scrape-time gauges backed by a sampling function
//
// The client records one counter and one histogram sample per session
// operation (connect, authenticate, execute), labelled with the result:
// "ok" or the error kind. The mock server exposes its registry at /metrics.
package metric
