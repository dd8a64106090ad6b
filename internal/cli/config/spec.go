package config

import "time"

// Default configuration values.
const (
	DefaultTimeout        = 10 * time.Second
	DefaultReadBufferSize = 4096
	DefaultOutput         = "text"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultLoginDelay     = time.Second
	DefaultEnvFile        = ".env"
)

// CLIConfig is the content of cli.yaml.
type CLIConfig struct {
	DefaultProfile string        `yaml:"default_profile,omitempty" koanf:"default_profile"`
	Output         string        `yaml:"output,omitempty" koanf:"output"`
	LogLevel       string        `yaml:"log_level,omitempty" koanf:"log_level"`
	HistoryFile    string        `yaml:"history_file,omitempty" koanf:"history_file"`
	LoginDelay     time.Duration `yaml:"login_delay,omitempty" koanf:"login_delay"`

	// Saved servers, keyed by profile name.
	Profiles map[string]Profile `yaml:"profiles,omitempty" koanf:"profiles"`
}

// Profile stores a saved server.
type Profile struct {
	Host           string        `yaml:"host" koanf:"host"`
	Port           int           `yaml:"port" koanf:"port"`
	Password       string        `yaml:"password,omitempty" koanf:"password"` // enc:v1: when sealed
	Timeout        time.Duration `yaml:"timeout,omitempty" koanf:"timeout"`
	ReadBufferSize int           `yaml:"read_buffer_size,omitempty" koanf:"read_buffer_size"`
}

// Settings is the effective configuration of one CLI invocation.
type Settings struct {
	Profile        string        `koanf:"profile" json:"profile,omitempty" yaml:"profile,omitempty"`
	Host           string        `koanf:"host" json:"host" yaml:"host"`
	Port           int           `koanf:"port" json:"port" yaml:"port"`
	Password       string        `koanf:"password" json:"password" yaml:"password"`
	Timeout        time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout"`
	ReadBufferSize int           `koanf:"read_buffer_size" json:"read_buffer_size" yaml:"read_buffer_size"`
	Output         string        `koanf:"output" json:"output" yaml:"output"`
	LogLevel       string        `koanf:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat      string        `koanf:"log_format" json:"log_format" yaml:"log_format"`
	LoginDelay     time.Duration `koanf:"login_delay" json:"login_delay" yaml:"login_delay"`
	HistoryFile    string        `koanf:"history_file" json:"history_file" yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Output:     DefaultOutput,
		LoginDelay: DefaultLoginDelay,
		Profiles:   make(map[string]Profile),
	}
}

// DefaultSettings returns settings before any source is applied.
func DefaultSettings() *Settings {
	return &Settings{
		Timeout:        DefaultTimeout,
		ReadBufferSize: DefaultReadBufferSize,
		Output:         DefaultOutput,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		LoginDelay:     DefaultLoginDelay,
		HistoryFile:    DefaultHistoryPath(),
	}
}
