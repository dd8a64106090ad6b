package config

import (
	"regexp"
	"strings"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/core/session"
)

var profileNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Verify validates the settings needed to open a session.
func Verify(s *Settings) error {
	var missing []string
	if strings.TrimSpace(s.Host) == "" {
		missing = append(missing, "RCON_HOST")
	}
	if s.Port == 0 {
		missing = append(missing, "RCON_PORT")
	}
	if s.Password == "" {
		missing = append(missing, "RCON_PASSWORD")
	}
	if len(missing) > 0 {
		return domain.ErrInvalidArgument.WithDetailsf(
			"missing required settings: %s (use flags, a .env file, environment variables or a profile)",
			strings.Join(missing, ", "))
	}

	if s.Port < 1 || s.Port > 65535 {
		return domain.ErrInvalidArgument.WithDetailsf("port %d out of range 1-65535", s.Port)
	}
	if s.Timeout <= 0 {
		return domain.ErrInvalidArgument.WithDetails("timeout must be positive")
	}
	if s.ReadBufferSize < 1 || s.ReadBufferSize > session.MaxReadBufferSize {
		return domain.ErrInvalidArgument.WithDetailsf(
			"read buffer size %d out of range 1-%d", s.ReadBufferSize, session.MaxReadBufferSize)
	}
	if s.LoginDelay < 0 {
		return domain.ErrInvalidArgument.WithDetails("login delay must not be negative")
	}
	return nil
}

// ValidateProfileName checks that name can be used as a profile key.
func ValidateProfileName(name string) error {
	if !profileNamePattern.MatchString(name) {
		return domain.ErrInvalidArgument.WithDetailsf(
			"invalid profile name %q (letters, digits, '-' and '_' only)", name)
	}
	return nil
}

// Endpoint returns the session endpoint described by s.
func (s *Settings) Endpoint() domain.Endpoint {
	return domain.Endpoint{Host: strings.TrimSpace(s.Host), Port: s.Port}
}

// Credential returns the login credential described by s.
func (s *Settings) Credential() domain.Credential {
	return domain.Credential{Password: s.Password}
}
