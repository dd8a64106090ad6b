package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hllrcon"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Client session metrics
	SessionsActive    prometheus.Gauge
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	TransferredBytes  *prometheus.CounterVec

	// Mock server metrics
	ServerConnections prometheus.Gauge
	ServerLogins      *prometheus.CounterVec
	ServerCommands    *prometheus.CounterVec
	ServerRateLimited prometheus.Counter
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected RCON sessions.",
		}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Session operations by result.",
		}, []string{"op", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Session operation latency.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		TransferredBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_bytes_total",
			Help:      "Bytes written to and read from RCON connections.",
		}, []string{"direction"}),
		ServerConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mock",
			Name:      "connections_active",
			Help:      "Open connections on the mock server.",
		}),
		ServerLogins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mock",
			Name:      "logins_total",
			Help:      "Login attempts on the mock server by result.",
		}, []string{"result"}),
		ServerCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mock",
			Name:      "commands_total",
			Help:      "Commands answered by the mock server.",
		}, []string{"verb", "result"}),
		ServerRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mock",
			Name:      "rate_limited_total",
			Help:      "Commands rejected by the per-connection rate limit.",
		}),
	}

	reg.MustRegister(
		r.SessionsActive,
		r.Operations,
		r.OperationDuration,
		r.TransferredBytes,
		r.ServerConnections,
		r.ServerLogins,
		r.ServerCommands,
		r.ServerRateLimited,
	)
	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// WriteTextfile writes the current metrics in the text exposition format,
// for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// IncSessionActive increments the connected session gauge.
func (r *Registry) IncSessionActive() { r.SessionsActive.Inc() }

// DecSessionActive decrements the connected session gauge.
func (r *Registry) DecSessionActive() { r.SessionsActive.Dec() }

// RecordOperation counts a session operation.
func (r *Registry) RecordOperation(op, result string) {
	r.Operations.WithLabelValues(op, result).Inc()
}

// ObserveOperationDuration records operation latency.
func (r *Registry) ObserveOperationDuration(op string, seconds float64) {
	r.OperationDuration.WithLabelValues(op).Observe(seconds)
}

// AddTransferredBytes counts bytes in direction "in" or "out".
func (r *Registry) AddTransferredBytes(direction string, n int) {
	r.TransferredBytes.WithLabelValues(direction).Add(float64(n))
}

// IncServerConnections increments the mock server connection gauge.
func (r *Registry) IncServerConnections() { r.ServerConnections.Inc() }

// DecServerConnections decrements the mock server connection gauge.
func (r *Registry) DecServerConnections() { r.ServerConnections.Dec() }

// RecordServerLogin counts a login attempt ("success" or "failure").
func (r *Registry) RecordServerLogin(result string) {
	r.ServerLogins.WithLabelValues(result).Inc()
}

// RecordServerCommand counts an answered command by its first word.
func (r *Registry) RecordServerCommand(verb, result string) {
	r.ServerCommands.WithLabelValues(verb, result).Inc()
}

// IncServerRateLimited counts a rate-limited command.
func (r *Registry) IncServerRateLimited() { r.ServerRateLimited.Inc() }
