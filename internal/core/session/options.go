package session

import (
	"context"
	"net"
	"time"

	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

const (
	// DefaultTimeout bounds dial, read and write.
	DefaultTimeout = 10 * time.Second

	// DefaultReadBufferSize is the largest message read in one call.
	// Longer replies are truncated.
	DefaultReadBufferSize = 4096

	// MaxReadBufferSize caps the configurable read buffer.
	MaxReadBufferSize = 1 << 20
)

// Dialer opens the transport connection.
// *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Recorder receives session metrics.
// *metric.Registry satisfies it.
type Recorder interface {
	IncSessionActive()
	DecSessionActive()
	RecordOperation(op, result string)
	ObserveOperationDuration(op string, seconds float64)
	AddTransferredBytes(direction string, n int)
}

type noopRecorder struct{}

func (noopRecorder) IncSessionActive()                        {}
func (noopRecorder) DecSessionActive()                        {}
func (noopRecorder) RecordOperation(string, string)           {}
func (noopRecorder) ObserveOperationDuration(string, float64) {}
func (noopRecorder) AddTransferredBytes(string, int)          {}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the dial, read and write timeout.
// Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithReadBufferSize sets the per-message read cap.
// Values outside 1..MaxReadBufferSize are ignored.
func WithReadBufferSize(n int) Option {
	return func(s *Session) {
		if n > 0 && n <= MaxReadBufferSize {
			s.readBufferSize = n
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.rec = r
		}
	}
}

// WithDialer replaces the default TCP dialer.
func WithDialer(d Dialer) Option {
	return func(s *Session) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}
