// Package config provides the hllrcon-mock configuration.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: MockConfig struct definition
//   - default.go: Default configuration values and environment key map
//   - verify.go: Validation (addresses, password, key length, files)
//   - sanitize.go: Log sanitization (hide the RCON password)
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// a .env file and HLLRCON_MOCK_* environment variables.
package config
