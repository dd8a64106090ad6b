package config

import "github.com/yndnr/hllrcon-go/internal/server/mockserver"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:9779"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// EnvPrefix is the prefix of hllrcon-mock environment variables.
	EnvPrefix = "HLLRCON_MOCK_"
)

// EnvKeyMap maps HLLRCON_MOCK_* names (prefix removed, lowercased) to
// configuration keys.
var EnvKeyMap = map[string]string{
	"address":          "rcon.address",
	"password":         "rcon.password",
	"key_length":       "rcon.key_length",
	"read_buffer_size": "rcon.read_buffer_size",
	"idle_timeout":     "rcon.idle_timeout",
	"rate_limit":       "rcon.rate_limit",
	"rate_burst":       "rcon.rate_burst",
	"max_connections":  "rcon.max_connections",
	"response_delay":   "rcon.response_delay",
	"http_addr":        "http.addr",
	"http_rate_limit":  "http.rate_limit",
	"responses_file":   "responses.file",
	"responses_watch":  "responses.watch",
	"log_level":        "log.level",
	"log_format":       "log.format",
}

// Default returns the default mock server configuration.
func Default() *MockConfig {
	return &MockConfig{
		RCON: *mockserver.DefaultConfig(),
		HTTP: HTTPSection{
			Addr: DefaultHTTPAddr,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
