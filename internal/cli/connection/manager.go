// Package connection provides connection management for hllrcon.
package connection

import (
	"context"
	"sync"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/core/session"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

// Connection describes the server a Manager connects to.
type Connection struct {
	Name           string
	Endpoint       domain.Endpoint
	Credential     domain.Credential
	Timeout        time.Duration
	ReadBufferSize int
}

// Manager owns at most one authenticated session.
type Manager struct {
	mu      sync.Mutex
	current *Connection
	sess    *session.Session
	logger  logger.Logger
	rec     session.Recorder
	dialer  session.Dialer
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger passed to sessions.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder passed to sessions.
func WithRecorder(r session.Recorder) Option {
	return func(m *Manager) { m.rec = r }
}

// WithDialer replaces the TCP dialer used by sessions.
func WithDialer(d session.Dialer) Option {
	return func(m *Manager) { m.dialer = d }
}

// NewManager creates a new connection manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{logger: logger.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect opens a session to conn and logs in. An existing session is
// closed first. On failure the new session is closed and the manager is
// left disconnected.
func (m *Manager) Connect(ctx context.Context, conn *Connection) error {
	if conn == nil {
		return domain.ErrInvalidArgument.WithDetails("connection is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeLocked()

	opts := []session.Option{
		session.WithTimeout(conn.Timeout),
		session.WithReadBufferSize(conn.ReadBufferSize),
		session.WithLogger(m.logger),
	}
	if m.rec != nil {
		opts = append(opts, session.WithRecorder(m.rec))
	}
	if m.dialer != nil {
		opts = append(opts, session.WithDialer(m.dialer))
	}

	s, err := session.New(conn.Endpoint, conn.Credential, opts...)
	if err != nil {
		return err
	}

	if err := s.Connect(ctx); err != nil {
		_ = s.Close()
		return err
	}
	if err := s.Authenticate(ctx); err != nil {
		_ = s.Close()
		return err
	}

	m.current = conn
	m.sess = s
	m.logger.Debug("connection established",
		"profile", conn.Name,
		"address", conn.Endpoint.Address(),
		"session_id", s.ID(),
	)
	return nil
}

// Execute sends one command on the current session.
func (m *Manager) Execute(ctx context.Context, cmd string) (string, error) {
	s, err := m.session()
	if err != nil {
		return "", err
	}
	return s.Execute(ctx, cmd)
}

// ExecuteExchange sends one command and returns the full exchange record.
func (m *Manager) ExecuteExchange(ctx context.Context, cmd string) (*domain.CommandExchange, error) {
	s, err := m.session()
	if err != nil {
		return nil, err
	}
	return s.ExecuteExchange(ctx, cmd)
}

// Disconnect closes the current session.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

// Current returns the current connection.
func (m *Manager) Current() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// IsConnected returns true if an authenticated session is open.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil && m.sess.State() == domain.StateAuthenticated
}

// Session returns the current session, or nil.
func (m *Manager) Session() *session.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess
}

func (m *Manager) session() (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil, domain.ErrInvalidState.WithDetails("not connected")
	}
	return m.sess, nil
}

func (m *Manager) closeLocked() error {
	if m.sess == nil {
		return nil
	}
	err := m.sess.Close()
	m.sess = nil
	m.current = nil
	return err
}
