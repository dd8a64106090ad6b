// Package config provides CLI configuration for hllrcon.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig (~/.hllrcon/cli.yaml) and the effective Settings
//   - loader.go: loading, saving and resolving settings
//   - verify.go: validation of the effective settings
//   - vault.go: at-rest encryption of saved profile passwords
//
// Settings are resolved from, in increasing priority: built-in defaults,
// the selected profile in cli.yaml, a .env file, RCON_* environment
// variables and command-line flags.
package config
