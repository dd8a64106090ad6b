package config

import (
	"fmt"

	"github.com/yndnr/hllrcon-go/internal/infra/confloader"
)

// Load reads the YAML file (optional), the .env file (optional),
// HLLRCON_MOCK_* variables and then overrides over the defaults, and
// verifies the result. Override keys are dotted, e.g. "rcon.password".
func Load(path, envFile string, overrides map[string]any) (*MockConfig, error) {
	cfg := Default()

	opts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithEnvKeyMap(EnvKeyMap),
	}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	if envFile != "" {
		opts = append(opts, confloader.WithEnvFile(envFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
