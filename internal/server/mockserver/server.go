package mockserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/pkg/cmap"
	"github.com/yndnr/hllrcon-go/pkg/crypto/xorstream"
)

// Config holds the mock server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string `koanf:"address"`

	// Password is the accepted RCON password.
	Password string `koanf:"password"`

	// KeyLength is the size of the per-connection obfuscation key.
	KeyLength int `koanf:"key_length"`

	// ReadBufferSize caps a single command read.
	ReadBufferSize int `koanf:"read_buffer_size"`

	// IdleTimeout closes connections that send nothing.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// WriteTimeout bounds each reply write.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the number of commands per second per connection.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the limiter bucket size (default: RateLimit rounded up).
	RateBurst int `koanf:"rate_burst"`

	// MaxConnections rejects connections beyond this count. Zero is unlimited.
	MaxConnections int `koanf:"max_connections"`

	// EmptyKey closes every connection without sending a key.
	EmptyKey bool `koanf:"empty_key"`

	// HangUpOnCommand closes the connection instead of answering the first
	// command after login. Clients observe an empty reply.
	HangUpOnCommand bool `koanf:"hang_up_on_command"`

	// ResponseDelay is added before every reply.
	ResponseDelay time.Duration `koanf:"response_delay"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        "127.0.0.1:7779",
		KeyLength:      16,
		ReadBufferSize: 4096,
		IdleTimeout:    5 * time.Minute,
		WriteTimeout:   10 * time.Second,
	}
}

// Recorder receives server metrics.
// *metric.Registry satisfies it.
type Recorder interface {
	IncServerConnections()
	DecServerConnections()
	RecordServerLogin(result string)
	RecordServerCommand(verb, result string)
	IncServerRateLimited()
}

type noopRecorder struct{}

func (noopRecorder) IncServerConnections()              {}
func (noopRecorder) DecServerConnections()              {}
func (noopRecorder) RecordServerLogin(string)           {}
func (noopRecorder) RecordServerCommand(string, string) {}
func (noopRecorder) IncServerRateLimited()              {}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Server) {
		if r != nil {
			s.rec = r
		}
	}
}

// Server is the mock RCON server.
type Server struct {
	cfg     *Config
	handler *CommandHandler
	logger  logger.Logger
	rec     Recorder
	ln      net.Listener
	running atomic.Bool
	wg      sync.WaitGroup
	conns   *cmap.Map[*Conn]
}

// Conn is a single client connection.
type Conn struct {
	id       string
	netConn  net.Conn
	key      []byte
	limiter  *rate.Limiter
	since    time.Time
	authed   atomic.Bool
	commands atomic.Int64
	closed   atomic.Bool
}

// ConnInfo describes a connection for status output.
type ConnInfo struct {
	ID            string    `json:"id"`
	Remote        string    `json:"remote"`
	Authenticated bool      `json:"authenticated"`
	Commands      int64     `json:"commands"`
	Since         time.Time `json:"since"`
}

// Close closes the connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// ID returns the connection ID.
func (c *Conn) ID() string { return c.id }

// Authenticated reports whether the client logged in.
func (c *Conn) Authenticated() bool { return c.authed.Load() }

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr { return c.netConn.RemoteAddr() }

// New creates a new mock server. A nil responses uses DefaultResponses.
func New(cfg *Config, responses *Responses, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if responses == nil {
		responses = DefaultResponses()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger.Default(),
		rec:    noopRecorder{},
		conns:  cmap.New[*Conn](),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = NewCommandHandler(cfg.Password, responses, s.logger, s.rec)
	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.cfg.KeyLength < 1 && !s.cfg.EmptyKey {
		return domain.ErrInvalidKey.WithDetails("key length must be positive")
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}
	s.ln = ln
	s.running.Store(true)
	context.AfterFunc(ctx, func() { _ = ln.Close() })

	s.logger.Info("mock rcon server listening",
		"address", ln.Addr().String(),
		"key_length", s.cfg.KeyLength,
		"rate_limit", s.cfg.RateLimit,
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("mock rcon server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Endpoint returns the listen address as a client endpoint.
func (s *Server) Endpoint() domain.Endpoint {
	addr, ok := s.Addr().(*net.TCPAddr)
	if !ok {
		return domain.Endpoint{}
	}
	return domain.Endpoint{Host: addr.IP.String(), Port: addr.Port}
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	return s.conns.Count()
}

// Connections returns a snapshot of the open connections.
func (s *Server) Connections() []ConnInfo {
	infos := make([]ConnInfo, 0, s.conns.Count())
	s.conns.Range(func(id string, c *Conn) bool {
		infos = append(infos, ConnInfo{
			ID:            id,
			Remote:        c.RemoteAddr().String(),
			Authenticated: c.Authenticated(),
			Commands:      c.commands.Load(),
			Since:         c.since,
		})
		return true
	})
	return infos
}

// Shutdown closes the listener and all connections, then waits for the
// connection goroutines to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}

	s.conns.Range(func(_ string, c *Conn) bool {
		_ = c.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("mock rcon server stopped")
	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		if s.cfg.MaxConnections > 0 && s.conns.Count() >= s.cfg.MaxConnections {
			s.logger.Warn("connection limit reached", "remote", c.RemoteAddr().String())
			_ = c.Close()
			continue
		}

		conn := s.newConn(c)
		s.conns.Set(conn.id, conn)
		s.rec.IncServerConnections()
		if !s.running.Load() {
			_ = conn.Close()
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}()
	}
}

func (s *Server) newConn(c net.Conn) *Conn {
	conn := &Conn{
		id:      strings.ToLower(ulid.Make().String()),
		netConn: c,
		since:   time.Now(),
	}
	if s.cfg.RateLimit > 0 {
		burst := s.cfg.RateBurst
		if burst < 1 {
			burst = int(s.cfg.RateLimit + 0.999)
		}
		conn.limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), burst)
	}
	return conn
}

func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer func() {
		_ = c.Close()
		s.conns.Delete(c.id)
		s.rec.DecServerConnections()
	}()

	log := s.logger.With("conn_id", c.id, "remote", c.RemoteAddr().String())
	log.Debug("client connected")

	// Unblock reads when the server context ends.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	if s.cfg.EmptyKey {
		log.Debug("closing without key")
		return
	}

	key, err := generateKey(s.cfg.KeyLength)
	if err != nil {
		log.Error("key generation failed", "error", err)
		return
	}
	c.key = key
	if err := s.write(c, key); err != nil {
		log.Debug("key write failed", "error", err)
		return
	}

	bufSize := s.cfg.ReadBufferSize
	if bufSize <= 0 {
		bufSize = 4096
	}
	idle := s.cfg.IdleTimeout
	if idle <= 0 {
		idle = 5 * time.Minute
	}

	buf := make([]byte, bufSize)
	for {
		if err := c.netConn.SetReadDeadline(time.Now().Add(idle)); err != nil {
			return
		}
		n, err := c.netConn.Read(buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				log.Debug("client disconnected")
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Debug("connection idle timeout")
				return
			}
			log.Debug("connection read error", "error", err)
			return
		}
		if n == 0 {
			continue
		}

		plain, err := xorstream.Transform(buf[:n], c.key)
		if err != nil {
			return
		}
		cmd := strings.ToValidUTF8(string(plain), "\uFFFD")

		if s.cfg.HangUpOnCommand && c.Authenticated() && !isLogin(cmd) {
			log.Debug("hanging up instead of replying")
			return
		}

		reply := s.handler.Handle(c, cmd)

		if s.cfg.ResponseDelay > 0 {
			select {
			case <-time.After(s.cfg.ResponseDelay):
			case <-ctx.Done():
				return
			}
		}

		// A zero-length write puts nothing on the wire; hang up so the
		// client reads EOF, its empty reply.
		if reply == "" {
			log.Debug("empty reply, closing connection", "command", cmd)
			return
		}

		enc, err := xorstream.Transform([]byte(reply), c.key)
		if err != nil {
			return
		}
		if err := s.write(c, enc); err != nil {
			log.Debug("reply write failed", "error", err)
			return
		}
	}
}

func (s *Server) write(c *Conn, b []byte) error {
	timeout := s.cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	_, err := c.netConn.Write(b)
	return err
}

// generateKey returns n random bytes from crypto/rand.
func generateKey(n int) ([]byte, error) {
	key := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
