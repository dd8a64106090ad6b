package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/infra/confloader"
)

// ErrPortNotInteger is returned when the port cannot be parsed.
var ErrPortNotInteger = domain.ErrInvalidArgument.WithDetails("RCON_PORT must be an integer")

// envKeyMap maps shortened environment names to settings keys.
var envKeyMap = map[string]string{
	"read_buffer": "read_buffer_size",
	"pass":        "password",
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".hllrcon", "cli.yaml")
}

// DefaultHistoryPath returns the default console history file path.
func DefaultHistoryPath() string {
	return filepath.Join(homeDir(), ".hllrcon", "history")
}

func homeDir() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return dir
}

// Load loads CLI configuration from file.
// A missing file yields the default configuration.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}

	l := confloader.NewLoader()
	if err := l.LoadFile(path); err != nil {
		return nil, err
	}
	if err := l.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]Profile)
	}
	return cfg, nil
}

// Save writes the CLI configuration with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cli-*.yaml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ProfileNames returns the saved profile names in sorted order.
func (c *CLIConfig) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetProfile stores p under name. When vault is non-nil the password is
// sealed before it is stored.
func (c *CLIConfig) SetProfile(name string, p Profile, vault *Vault) error {
	if err := ValidateProfileName(name); err != nil {
		return err
	}
	if vault != nil && p.Password != "" && !IsSealed(p.Password) {
		sealed, err := vault.Seal(name, p.Password)
		if err != nil {
			return err
		}
		p.Password = sealed
	}
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = p
	return nil
}

// RemoveProfile deletes a profile and reports whether it existed.
// Removing the default profile clears DefaultProfile.
func (c *CLIConfig) RemoveProfile(name string) bool {
	if _, ok := c.Profiles[name]; !ok {
		return false
	}
	delete(c.Profiles, name)
	if c.DefaultProfile == name {
		c.DefaultProfile = ""
	}
	return true
}

// ResolveOptions selects the sources for Resolve.
type ResolveOptions struct {
	ConfigPath string
	EnvFile    string
	Profile    string

	// Flags holds explicitly set command-line values keyed like Settings.
	Flags map[string]any
}

// Resolve builds the effective settings. Later sources override earlier
// ones: defaults, profile, .env file, RCON_* environment, flags.
func Resolve(opts ResolveOptions) (*Settings, *CLIConfig, error) {
	cfg, err := Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	s := DefaultSettings()
	if cfg.Output != "" {
		s.Output = cfg.Output
	}
	if cfg.LogLevel != "" {
		s.LogLevel = cfg.LogLevel
	}
	if cfg.HistoryFile != "" {
		s.HistoryFile = cfg.HistoryFile
	}
	if cfg.LoginDelay > 0 {
		s.LoginDelay = cfg.LoginDelay
	}

	l := confloader.NewLoader(confloader.WithEnvKeyMap(envKeyMap))

	name := opts.Profile
	if name == "" {
		name = cfg.DefaultProfile
	}
	if name != "" {
		p, ok := cfg.Profiles[name]
		if !ok {
			return nil, nil, domain.ErrInvalidArgument.WithDetailsf("profile %q not found", name)
		}
		values, err := profileValues(name, p)
		if err != nil {
			return nil, nil, err
		}
		if err := l.LoadMap(values); err != nil {
			return nil, nil, err
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := l.LoadEnvFile(envFile); err != nil {
		return nil, nil, fmt.Errorf("load env file: %w", err)
	}
	if err := l.LoadEnv(); err != nil {
		return nil, nil, err
	}
	if len(opts.Flags) > 0 {
		if err := l.LoadMap(opts.Flags); err != nil {
			return nil, nil, err
		}
	}

	if err := normalize(l); err != nil {
		return nil, nil, err
	}
	if err := l.Unmarshal(s); err != nil {
		return nil, nil, domain.ErrInvalidArgument.WithCause(err)
	}
	s.Profile = name
	return s, cfg, nil
}

// profileValues flattens a profile, opening a sealed password.
func profileValues(name string, p Profile) (map[string]any, error) {
	values := map[string]any{}
	if p.Host != "" {
		values["host"] = p.Host
	}
	if p.Port != 0 {
		values["port"] = p.Port
	}
	if p.Timeout > 0 {
		values["timeout"] = p.Timeout
	}
	if p.ReadBufferSize > 0 {
		values["read_buffer_size"] = p.ReadBufferSize
	}
	if p.Password != "" {
		password := p.Password
		if IsSealed(password) {
			vault, err := VaultFromEnv()
			if err != nil {
				return nil, err
			}
			if vault == nil {
				return nil, domain.ErrInvalidArgument.WithDetailsf(
					"profile %q has an encrypted password; set %s", name, MasterKeyEnv)
			}
			if password, err = vault.Open(name, password); err != nil {
				return nil, err
			}
		}
		values["password"] = password
	}
	return values, nil
}

// normalize converts string values from the environment into the types
// Settings expects, so malformed input fails with a readable message.
func normalize(l *confloader.Loader) error {
	fix := map[string]any{}

	for _, key := range []string{"port", "read_buffer_size"} {
		v := l.Get(key)
		s, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			if key == "port" {
				return ErrPortNotInteger
			}
			return domain.ErrInvalidArgument.WithDetailsf("%s must be an integer", envName(key))
		}
		fix[key] = n
	}

	for _, key := range []string{"timeout", "login_delay"} {
		v := l.Get(key)
		s, ok := v.(string)
		if !ok {
			continue
		}
		d, err := parseDuration(s)
		if err != nil {
			return domain.ErrInvalidArgument.WithDetailsf(
				"%s must be a duration or a number of seconds", envName(key))
		}
		fix[key] = d
	}

	if len(fix) == 0 {
		return nil
	}
	return l.LoadMap(fix)
}

// parseDuration accepts Go durations ("1.5s") and bare seconds ("10").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func envName(key string) string {
	return confloader.DefaultEnvPrefix + strings.ToUpper(key)
}
