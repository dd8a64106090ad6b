package mockserver

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/core/session"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/internal/telemetry/metric"
	"github.com/yndnr/hllrcon-go/pkg/crypto/xorstream"
)

var _ Recorder = (*metric.Registry)(nil)

const testPassword = "pw"

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "debug", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}
	return l
}

// startServer runs a mock server on a loopback port until the test ends.
func startServer(t *testing.T, mutate func(*Config), responses *Responses, opts ...Option) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.Password = testPassword
	if mutate != nil {
		mutate(cfg)
	}

	opts = append([]Option{WithLogger(quietLogger(t))}, opts...)
	srv := New(cfg, responses, opts...)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

// dialSession connects a client session to srv, logging in when password
// is non-empty.
func dialSession(t *testing.T, srv *Server, password string) *session.Session {
	t.Helper()

	s, err := session.New(srv.Endpoint(), domain.Credential{Password: password},
		session.WithTimeout(2*time.Second),
		session.WithLogger(quietLogger(t)),
	)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if password != "" {
		if err := s.Authenticate(ctx); err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
	}
	return s
}

// rawClient speaks the wire protocol directly.
type rawClient struct {
	t    *testing.T
	conn net.Conn
	key  []byte
}

func dialRaw(t *testing.T, srv *Server) *rawClient {
	t.Helper()

	conn, err := net.DialTimeout("tcp", srv.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("reading key: %v", err)
	}
	return &rawClient{t: t, conn: conn, key: append([]byte(nil), buf[:n]...)}
}

func (c *rawClient) send(cmd string) string {
	c.t.Helper()

	enc, err := xorstream.Transform([]byte(cmd), c.key)
	if err != nil {
		c.t.Fatalf("Transform() error = %v", err)
	}
	if _, err := c.conn.Write(enc); err != nil {
		c.t.Fatalf("Write() error = %v", err)
	}

	buf := make([]byte, 4096)
	n, err := c.conn.Read(buf)
	if err != nil {
		c.t.Fatalf("Read() error = %v", err)
	}
	plain, _ := xorstream.Transform(buf[:n], c.key)
	return string(plain)
}

// countingRecorder records server metric calls.
type countingRecorder struct {
	mu          sync.Mutex
	active      int
	logins      map[string]int
	commands    map[string]int
	rateLimited int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{logins: map[string]int{}, commands: map[string]int{}}
}

func (r *countingRecorder) IncServerConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active++
}

func (r *countingRecorder) DecServerConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active--
}

func (r *countingRecorder) RecordServerLogin(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[result]++
}

func (r *countingRecorder) RecordServerCommand(verb, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[verb+"/"+result]++
}

func (r *countingRecorder) IncServerRateLimited() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rateLimited++
}

func (r *countingRecorder) snapshot() (active int, logins, commands map[string]int, limited int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	logins = make(map[string]int, len(r.logins))
	for k, v := range r.logins {
		logins[k] = v
	}
	commands = make(map[string]int, len(r.commands))
	for k, v := range r.commands {
		commands[k] = v
	}
	return r.active, logins, commands, r.rateLimited
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}
