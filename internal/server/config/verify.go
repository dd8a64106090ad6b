package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *MockConfig) error {
	if err := verifyRCON(cfg); err != nil {
		return err
	}
	if err := verifyHTTP(&cfg.HTTP); err != nil {
		return err
	}
	if err := verifyResponses(&cfg.Responses); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func verifyRCON(cfg *MockConfig) error {
	r := &cfg.RCON
	if _, _, err := net.SplitHostPort(r.Address); err != nil {
		return fmt.Errorf("rcon.address %q: %w", r.Address, err)
	}
	if r.Password == "" {
		return errors.New("rcon.password is required")
	}
	if !r.EmptyKey && (r.KeyLength < 1 || r.KeyLength > 4096) {
		return fmt.Errorf("rcon.key_length must be between 1 and 4096, got %d", r.KeyLength)
	}
	if r.ReadBufferSize < 1 {
		return errors.New("rcon.read_buffer_size must be positive")
	}
	if r.RateLimit < 0 {
		return errors.New("rcon.rate_limit must not be negative")
	}
	if r.MaxConnections < 0 {
		return errors.New("rcon.max_connections must not be negative")
	}
	return nil
}

func verifyHTTP(cfg *HTTPSection) error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("http.addr %q: %w", cfg.Addr, err)
	}
	if cfg.RateLimit < 0 {
		return errors.New("http.rate_limit must not be negative")
	}
	return nil
}

func verifyResponses(cfg *ResponsesSection) error {
	if cfg.File == "" {
		if cfg.Watch {
			return errors.New("responses.watch requires responses.file")
		}
		return nil
	}
	if _, err := os.Stat(cfg.File); err != nil {
		return fmt.Errorf("responses.file: %w", err)
	}
	return nil
}
