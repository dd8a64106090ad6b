package session

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/pkg/crypto/xorstream"
)

// Operation names used as metric labels.
const (
	OpConnect      = "connect"
	OpAuthenticate = "authenticate"
	OpExecute      = "execute"
)

// Result label for a successful operation. Failures use domain.Kind(err).
const resultOK = "ok"

// longAgo is a deadline in the past; setting it aborts blocked I/O.
var longAgo = time.Unix(1, 0)

// Session is a single RCON connection.
//
// Methods are safe for concurrent use. Exchanges are serialized; Close may be
// called at any time and interrupts an exchange in flight.
type Session struct {
	id             string
	endpoint       domain.Endpoint
	credential     domain.Credential
	timeout        time.Duration
	readBufferSize int
	dialer         Dialer
	log            logger.Logger
	rec            Recorder

	// opMu serializes Connect, Authenticate and Execute.
	opMu sync.Mutex

	// mu guards the fields below. Close takes only mu.
	mu         sync.Mutex
	state      domain.SessionState
	conn       net.Conn
	cipher     *xorstream.Cipher
	authFailed bool
}

// New creates an unconnected session.
func New(endpoint domain.Endpoint, credential domain.Credential, opts ...Option) (*Session, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		id:             domain.GenerateSessionID(),
		endpoint:       endpoint,
		credential:     credential,
		timeout:        DefaultTimeout,
		readBufferSize: DefaultReadBufferSize,
		log:            logger.Default(),
		rec:            noopRecorder{},
		state:          domain.StateUnconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dialer == nil {
		s.dialer = &net.Dialer{Timeout: s.timeout}
	}
	s.log = s.log.With("session_id", s.id, "addr", endpoint.Address())

	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Endpoint returns the server endpoint.
func (s *Session) Endpoint() domain.Endpoint { return s.endpoint }

// State returns the current lifecycle state.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// KeyFingerprint returns a hash of the obfuscation key, or "" before Connect.
func (s *Session) KeyFingerprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cipher.Fingerprint()
}

// Connect dials the server and reads the obfuscation key.
//
// On any failure the connection is released and the session is Closed.
func (s *Session) Connect(ctx context.Context) (err error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	defer func() { s.observe(OpConnect, start, err) }()

	s.mu.Lock()
	if s.state != domain.StateUnconnected {
		state := s.state
		s.mu.Unlock()
		return domain.ErrInvalidState.WithDetailsf("connect: session is %s", state)
	}
	s.mu.Unlock()

	addr := s.endpoint.Address()
	s.log.Debug("dialing rcon server", "timeout", s.timeout.String())

	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		_ = s.Close()
		if ctx.Err() != nil {
			return domain.ErrConnection.WithDetailsf("dial %s cancelled", addr).WithCause(ctx.Err())
		}
		return domain.ErrConnection.WithDetailsf("dial %s", addr).WithCause(err)
	}

	s.mu.Lock()
	if s.state == domain.StateClosed {
		s.mu.Unlock()
		_ = conn.Close()
		return domain.ErrConnection.WithDetails("session closed during connect")
	}
	s.conn = conn
	s.mu.Unlock()

	key, err := s.readMessage(ctx, conn, "read key")
	if err != nil {
		_ = s.Close()
		return err
	}
	if len(key) == 0 {
		_ = s.Close()
		return domain.ErrProtocol.WithDetails("server closed the connection before sending a key")
	}

	cipher, err := xorstream.New(key)
	if err != nil {
		_ = s.Close()
		return domain.ErrInvalidKey.WithCause(err)
	}

	s.mu.Lock()
	if s.state == domain.StateClosed {
		s.mu.Unlock()
		return domain.ErrConnection.WithDetails("session closed during connect")
	}
	s.cipher = cipher
	s.state = domain.StateConnected
	s.mu.Unlock()

	s.rec.IncSessionActive()
	s.log.Info("connected",
		"key_len", cipher.KeyLen(),
		"key_fp", cipher.Fingerprint(),
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// Authenticate sends the login command. Only the exact reply "SUCCESS"
// authenticates. A rejected login leaves the session unusable; only Close
// is meaningful afterwards.
func (s *Session) Authenticate(ctx context.Context) (err error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	defer func() { s.observe(OpAuthenticate, start, err) }()

	conn, cipher, err := s.acquire(domain.StateConnected, OpAuthenticate)
	if err != nil {
		return err
	}

	payload, err := cipher.Encrypt([]byte(s.credential.LoginCommand()))
	if err != nil {
		return domain.ErrInvalidKey.WithCause(err)
	}

	reply, err := s.roundTrip(ctx, conn, payload)
	if err != nil {
		return err
	}
	plain, err := cipher.Decrypt(reply)
	if err != nil {
		return domain.ErrInvalidKey.WithCause(err)
	}
	text := decodeText(plain)

	if text != domain.AuthSuccessMarker {
		s.mu.Lock()
		s.authFailed = true
		s.mu.Unlock()
		s.log.Warn("login rejected", "reply", text)
		if text == "" {
			return domain.ErrAuthentication.WithDetails("empty reply to login")
		}
		return domain.ErrAuthentication.WithDetailsf("server replied %q", text)
	}

	s.mu.Lock()
	if s.state != domain.StateConnected {
		s.mu.Unlock()
		return domain.ErrConnection.WithDetails("session closed during authenticate")
	}
	s.state = domain.StateAuthenticated
	s.mu.Unlock()

	s.log.Info("authenticated", "elapsed", time.Since(start).String())
	return nil
}

// Execute sends one command and returns the decoded reply.
// A reply of zero bytes yields "" and no error.
func (s *Session) Execute(ctx context.Context, command string) (string, error) {
	x, err := s.ExecuteExchange(ctx, command)
	if err != nil {
		return "", err
	}
	return x.ResponseText, nil
}

// ExecuteExchange is Execute returning the full exchange record.
func (s *Session) ExecuteExchange(ctx context.Context, command string) (x *domain.CommandExchange, err error) {
	if strings.TrimSpace(command) == "" {
		return nil, domain.ErrInvalidArgument.WithDetails("command is empty")
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	start := time.Now()
	defer func() { s.observe(OpExecute, start, err) }()

	conn, cipher, err := s.acquire(domain.StateAuthenticated, OpExecute)
	if err != nil {
		return nil, err
	}

	raw := []byte(command)
	payload, err := cipher.Encrypt(raw)
	if err != nil {
		return nil, domain.ErrInvalidKey.WithCause(err)
	}
	if logger.IsSensitiveValue(command) {
		s.log.Debug("sending command", "command", command, "bytes", len(payload))
	} else {
		s.log.Debug("sending command",
			"command", command,
			"raw_hex", hex.EncodeToString(raw),
			"wire_hex", hex.EncodeToString(payload),
		)
	}

	reply, err := s.roundTrip(ctx, conn, payload)
	if err != nil {
		return nil, err
	}
	plain, err := cipher.Decrypt(reply)
	if err != nil {
		return nil, domain.ErrInvalidKey.WithCause(err)
	}

	x = &domain.CommandExchange{
		SessionID:     s.id,
		Request:       command,
		ResponseBytes: plain,
		ResponseText:  decodeText(plain),
		Duration:      time.Since(start),
	}
	s.log.Debug("received response",
		"command", command,
		"bytes", len(reply),
		"wire_hex", hex.EncodeToString(reply),
		"elapsed", x.Duration.String(),
	)
	return x, nil
}

// Close releases the connection. It is idempotent and safe to call from any
// state, including concurrently with an exchange in flight.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateClosed {
		return nil
	}
	prev := s.state
	s.state = domain.StateClosed
	s.cipher = nil

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	if prev == domain.StateConnected || prev == domain.StateAuthenticated {
		s.rec.DecSessionActive()
		s.log.Info("session closed", "from_state", prev.String())
	}

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return domain.ErrConnection.WithDetails("close").WithCause(err)
	}
	return nil
}

// acquire checks the state and returns the connection and cipher for one
// exchange.
func (s *Session) acquire(want domain.SessionState, op string) (net.Conn, *xorstream.Cipher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authFailed {
		return nil, nil, domain.ErrInvalidState.WithDetailsf("%s: login was rejected", op)
	}
	if s.state != want {
		return nil, nil, domain.ErrInvalidState.WithDetailsf("%s: session is %s, want %s", op, s.state, want)
	}
	if s.cipher == nil {
		return nil, nil, domain.ErrInvalidKey.WithDetailsf("%s: no key", op)
	}
	return s.conn, s.cipher, nil
}

// roundTrip writes one message and reads one reply.
func (s *Session) roundTrip(ctx context.Context, conn net.Conn, payload []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrConnection.WithDetails("write cancelled").WithCause(err)
	}

	if err := conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, s.ioError(ctx, "set write deadline", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(longAgo) })
	_, err := conn.Write(payload)
	stop()
	if err != nil {
		return nil, s.ioError(ctx, "write", err)
	}
	s.rec.AddTransferredBytes("out", len(payload))

	return s.readMessage(ctx, conn, "read")
}

// readMessage performs exactly one read of at most readBufferSize bytes.
// A zero-byte read returns an empty slice and no error.
func (s *Session) readMessage(ctx context.Context, conn net.Conn, op string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrConnection.WithDetails(op + " cancelled").WithCause(err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, s.ioError(ctx, "set "+op+" deadline", err)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(longAgo) })
	defer stop()

	buf := make([]byte, s.readBufferSize)
	n, err := conn.Read(buf)
	if n > 0 {
		s.rec.AddTransferredBytes("in", n)
		if n == len(buf) {
			s.log.Warn("message filled the read buffer and may be truncated", "read_buffer_size", n)
		}
		return buf[:n], nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return []byte{}, nil
	}
	return nil, s.ioError(ctx, op, err)
}

// ioError maps a socket error to a ConnectionError.
func (s *Session) ioError(ctx context.Context, op string, err error) error {
	switch {
	case ctx.Err() != nil:
		return domain.ErrConnection.WithDetails(op + " cancelled").WithCause(ctx.Err())
	case s.State() == domain.StateClosed:
		return domain.ErrConnection.WithDetails(op + ": session closed").WithCause(err)
	case errors.Is(err, os.ErrDeadlineExceeded):
		return domain.ErrConnection.WithDetailsf("%s timed out after %s", op, s.timeout).WithCause(err)
	default:
		return domain.ErrConnection.WithDetails(op).WithCause(err)
	}
}

func (s *Session) observe(op string, start time.Time, err error) {
	result := resultOK
	if err != nil {
		result = domain.Kind(err)
		s.log.Debug("operation failed", "op", op, "kind", result, "error", err)
	}
	s.rec.RecordOperation(op, result)
	s.rec.ObserveOperationDuration(op, time.Since(start).Seconds())
}

// decodeText decodes UTF-8, replacing invalid sequences with U+FFFD.
func decodeText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
