package config

import "github.com/yndnr/hllrcon-go/internal/server/mockserver"

// MockConfig is the root configuration for hllrcon-mock.
type MockConfig struct {
	RCON      mockserver.Config `koanf:"rcon"`
	HTTP      HTTPSection       `koanf:"http"`
	Responses ResponsesSection  `koanf:"responses"`
	Log       LogSection        `koanf:"log"`
}

// HTTPSection configures the health and metrics endpoint.
type HTTPSection struct {
	// Addr is the listen address. Empty disables the endpoint.
	Addr string `koanf:"addr"`

	// RateLimit is requests per second per client IP. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`

	// Audit logs every request.
	Audit bool `koanf:"audit"`
}

// ResponsesSection selects the canned reply table.
type ResponsesSection struct {
	// File is a YAML response table. Empty uses the built-in table.
	File string `koanf:"file"`

	// Watch reloads File when it changes.
	Watch bool `koanf:"watch"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
