// Package domain defines the core domain models for the RCON client.
package domain

import (
	"crypto/rand"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// SessionIDPrefix is the prefix for session IDs.
	SessionIDPrefix = "rcs-"

	// MinPort and MaxPort bound a TCP port.
	MinPort = 1
	MaxPort = 65535
)

// Endpoint is the address of a game server's RCON listener.
type Endpoint struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Validate checks that the endpoint is dialable.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Host) == "" {
		return ErrInvalidArgument.WithDetails("host is required")
	}
	if e.Port < MinPort || e.Port > MaxPort {
		return ErrInvalidArgument.WithDetailsf("port %d out of range %d-%d", e.Port, MinPort, MaxPort)
	}
	return nil
}

// Address returns host:port, bracketing IPv6 literals.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	return e.Address()
}

// Credential holds the RCON password.
//
// The password never appears in fmt or slog output.
type Credential struct {
	Password string `json:"-" yaml:"-"`
}

// String implements fmt.Stringer without revealing the password.
func (c Credential) String() string {
	if c.Password == "" {
		return "Credential{}"
	}
	return "Credential{***}"
}

// GoString keeps %#v from printing the password.
func (c Credential) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// LoginCommand builds the authentication command sent after the handshake.
func (c Credential) LoginCommand() string {
	return "Login " + c.Password
}

// SessionState is the lifecycle position of a session.
type SessionState int

const (
	// StateUnconnected is the initial state: no connection, no key.
	StateUnconnected SessionState = iota
	// StateConnected means the connection is open and the key is stored.
	StateConnected
	// StateAuthenticated means the login succeeded; commands are permitted.
	StateAuthenticated
	// StateClosed is terminal; the connection has been released.
	StateClosed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case StateUnconnected:
		return "unconnected"
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// CanTransition reports whether moving from s to next is allowed.
// States only move forward; Closed is reachable from anywhere.
func (s SessionState) CanTransition(next SessionState) bool {
	if s == StateClosed {
		return false
	}
	if next == StateClosed {
		return true
	}
	return next == s+1
}

// AuthSuccessMarker is the exact reply that accepts a login.
const AuthSuccessMarker = "SUCCESS"

// CommandExchange is one request/response round trip.
type CommandExchange struct {
	SessionID     string        `json:"session_id" yaml:"session_id" table:"wide"`
	Request       string        `json:"request" yaml:"request"`
	ResponseBytes []byte        `json:"-" yaml:"-" table:"-"`
	ResponseText  string        `json:"response" yaml:"response"`
	Duration      time.Duration `json:"duration" yaml:"duration" table:"wide"`
}

// Empty reports whether the server replied with zero bytes.
func (x *CommandExchange) Empty() bool {
	return len(x.ResponseBytes) == 0
}

// GenerateSessionID generates a new session ID using ULID.
// Format: rcs-{ulid_lowercase}, 30 characters total.
func GenerateSessionID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return SessionIDPrefix + strings.ToLower(id.String())
}

// IsValidSessionID checks if a string is a valid session ID.
func IsValidSessionID(id string) bool {
	id = strings.ToLower(id)
	if !strings.HasPrefix(id, SessionIDPrefix) {
		return false
	}
	if len(id) != len(SessionIDPrefix)+ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(id[len(SessionIDPrefix):]))
	return err == nil
}
