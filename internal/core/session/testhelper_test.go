package session

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/internal/telemetry/metric"
	"github.com/yndnr/hllrcon-go/pkg/crypto/xorstream"
)

var _ Recorder = (*metric.Registry)(nil)

// testKey is the two-byte key used by most scenarios.
var testKey = []byte{0x01, 0x02}

// startServer listens on loopback and runs handler for each accepted
// connection. The listener is closed when the test ends.
func startServer(t *testing.T, handler func(conn net.Conn)) domain.Endpoint {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				handler(conn)
			}()
		}
	}()

	return domain.Endpoint{Host: "127.0.0.1", Port: ln.Addr().(*net.TCPAddr).Port}
}

// rconHandler sends key, then answers each message with reply(plaintext).
// A false second return closes the connection without replying.
func rconHandler(key []byte, reply func(cmd string) (string, bool)) func(net.Conn) {
	return func(conn net.Conn) {
		if _, err := conn.Write(key); err != nil {
			return
		}
		buf := make([]byte, 4096)
		for {
			n, err := conn.Read(buf)
			if err != nil {
				return
			}
			plain, _ := xorstream.Transform(buf[:n], key)
			resp, ok := reply(string(plain))
			if !ok {
				return
			}
			enc, _ := xorstream.Transform([]byte(resp), key)
			if _, err := conn.Write(enc); err != nil {
				return
			}
		}
	}
}

// gameServer accepts password "pw" and knows a few commands.
func gameServer(cmd string) (string, bool) {
	switch cmd {
	case "Login pw":
		return "SUCCESS", true
	case "Get Name":
		return "ServerOne", true
	}
	if len(cmd) > 6 && cmd[:6] == "Login " {
		return "FAILED", true
	}
	return "FAIL", true
}

func xorBytes(t *testing.T, data, key []byte) []byte {
	t.Helper()
	out, err := xorstream.Transform(data, key)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	return out
}

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "debug", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	return l
}

// newTestSession creates a session that is closed at test end.
func newTestSession(t *testing.T, ep domain.Endpoint, password string, opts ...Option) *Session {
	t.Helper()

	opts = append([]Option{WithLogger(quietLogger(t)), WithTimeout(2 * time.Second)}, opts...)
	s, err := New(ep, domain.Credential{Password: password}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// closedPort returns a loopback endpoint with nothing listening.
func closedPort(t *testing.T) domain.Endpoint {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return domain.Endpoint{Host: "127.0.0.1", Port: port}
}

// countingRecorder records calls from a Session.
type countingRecorder struct {
	mu       sync.Mutex
	active   int
	ops      map[string]int
	bytesIn  int
	bytesOut int
	observed int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ops: make(map[string]int)}
}

func (r *countingRecorder) IncSessionActive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active++
}

func (r *countingRecorder) DecSessionActive() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active--
}

func (r *countingRecorder) RecordOperation(op, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op+"/"+result]++
}

func (r *countingRecorder) ObserveOperationDuration(op string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observed++
}

func (r *countingRecorder) AddTransferredBytes(direction string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if direction == "in" {
		r.bytesIn += n
	} else {
		r.bytesOut += n
	}
}

var errNoDeadline = errors.New("deadlines not supported")

// deadlineConn fails SetReadDeadline or SetWriteDeadline on request.
type deadlineConn struct {
	net.Conn
	failRead  bool
	failWrite bool
}

func (c *deadlineConn) SetReadDeadline(t time.Time) error {
	if c.failRead {
		return errNoDeadline
	}
	return c.Conn.SetReadDeadline(t)
}

func (c *deadlineConn) SetWriteDeadline(t time.Time) error {
	if c.failWrite {
		return errNoDeadline
	}
	return c.Conn.SetWriteDeadline(t)
}

// connDialer hands out a fixed connection.
type connDialer struct {
	conn net.Conn
}

func (d connDialer) DialContext(context.Context, string, string) (net.Conn, error) {
	return d.conn, nil
}

// pipeSession returns a session dialing into an in-memory pipe and the
// server end of that pipe. The server end sends testKey.
func pipeSession(t *testing.T, failRead, failWrite bool) (*Session, net.Conn) {
	t.Helper()

	client, server := net.Pipe()
	t.Cleanup(func() { server.Close() })
	go func() { _, _ = server.Write(testKey) }()

	conn := &deadlineConn{Conn: client, failRead: failRead, failWrite: failWrite}
	s := newTestSession(t, domain.Endpoint{Host: "127.0.0.1", Port: 7779}, "pw",
		WithDialer(connDialer{conn: conn}))
	return s, server
}
