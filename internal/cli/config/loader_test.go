package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

const profileYAML = `
default_profile: eu
output: table
profiles:
  eu:
    host: eu.example.com
    port: 7779
    password: from-profile
    timeout: 4s
  us:
    host: us.example.com
    port: 7780
    password: us-pass
`

func resolveOpts(t *testing.T, cfgContent, envContent string) ResolveOptions {
	t.Helper()
	clearEnv(t)

	dir := t.TempDir()
	opts := ResolveOptions{
		ConfigPath: filepath.Join(dir, "cli.yaml"),
		EnvFile:    filepath.Join(dir, ".env"),
	}
	if cfgContent != "" {
		writeFile(t, opts.ConfigPath, cfgContent)
	}
	if envContent != "" {
		writeFile(t, opts.EnvFile, envContent)
	}
	return opts
}

func TestResolve_DefaultsOnly(t *testing.T) {
	opts := resolveOpts(t, "", "")

	s, cfg, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Resolve() returned nil CLIConfig")
	}
	if s.Host != "" || s.Port != 0 || s.Timeout != DefaultTimeout {
		t.Errorf("settings = %+v", s)
	}
	if err := Verify(s); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Verify() error = %v, want missing settings", err)
	}
}

func TestResolve_DefaultProfile(t *testing.T) {
	opts := resolveOpts(t, profileYAML, "")

	s, _, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Profile != "eu" || s.Host != "eu.example.com" || s.Port != 7779 {
		t.Errorf("settings = %+v", s)
	}
	if s.Password != "from-profile" || s.Timeout != 4*time.Second {
		t.Errorf("settings = %+v", s)
	}
	if s.Output != "table" {
		t.Errorf("Output = %q, want table from cli.yaml", s.Output)
	}
}

func TestResolve_NamedProfile(t *testing.T) {
	opts := resolveOpts(t, profileYAML, "")
	opts.Profile = "us"

	s, _, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if s.Host != "us.example.com" || s.Port != 7780 {
		t.Errorf("settings = %+v", s)
	}
	if s.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default", s.Timeout)
	}
}

func TestResolve_ProfileNotFound(t *testing.T) {
	opts := resolveOpts(t, profileYAML, "")
	opts.Profile = "asia"

	_, _, err := Resolve(opts)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Resolve() error = %v, want ErrInvalidArgument", err)
	}
}

func TestResolve_Precedence(t *testing.T) {
	opts := resolveOpts(t, profileYAML, "RCON_HOST=dotenv-host\nRCON_PASSWORD=dotenv-pass\nRCON_PORT=1000\nOTHER=x\n")
	t.Setenv("RCON_PASSWORD", "env-pass")
	t.Setenv("RCON_PORT", "2000")
	opts.Flags = map[string]any{"port": 3000}

	s, _, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		field string
		got   any
		want  any
	}{
		{"host (.env over profile)", s.Host, "dotenv-host"},
		{"password (env over .env)", s.Password, "env-pass"},
		{"port (flag over env)", s.Port, 3000},
		{"timeout (profile over default)", s.Timeout, 4 * time.Second},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.field, tt.got, tt.want)
		}
	}
}

func TestResolve_EnvOnly(t *testing.T) {
	opts := resolveOpts(t, "", "")
	t.Setenv("RCON_HOST", "10.1.1.1")
	t.Setenv("RCON_PORT", "7779")
	t.Setenv("RCON_PASSWORD", "pw")
	t.Setenv("RCON_READ_BUFFER", "8192")
	t.Setenv("RCON_TIMEOUT", "2.5")

	s, _, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := Verify(s); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if s.ReadBufferSize != 8192 {
		t.Errorf("ReadBufferSize = %d, want 8192", s.ReadBufferSize)
	}
	if s.Timeout != 2500*time.Millisecond {
		t.Errorf("Timeout = %v, want 2.5s", s.Timeout)
	}
	if got := s.Endpoint().Address(); got != "10.1.1.1:7779" {
		t.Errorf("Endpoint().Address() = %q", got)
	}
}

func TestResolve_PortNotInteger(t *testing.T) {
	opts := resolveOpts(t, "", "")
	t.Setenv("RCON_PORT", "seven")

	_, _, err := Resolve(opts)
	if !errors.Is(err, ErrPortNotInteger) {
		t.Fatalf("Resolve() error = %v, want ErrPortNotInteger", err)
	}
	if !strings.Contains(err.Error(), "RCON_PORT must be an integer") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestResolve_BadDuration(t *testing.T) {
	opts := resolveOpts(t, "", "")
	t.Setenv("RCON_TIMEOUT", "soon")

	_, _, err := Resolve(opts)
	if err == nil || !strings.Contains(err.Error(), "RCON_TIMEOUT") {
		t.Errorf("Resolve() error = %v, want RCON_TIMEOUT message", err)
	}
}

func TestResolve_SealedPassword(t *testing.T) {
	vault, err := NewVault("correct horse battery")
	if err != nil {
		t.Fatalf("NewVault() error = %v", err)
	}
	cfg := Default()
	if err := cfg.SetProfile("eu", Profile{Host: "h", Port: 7779, Password: "hunter2"}, vault); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}
	if !IsSealed(cfg.Profiles["eu"].Password) {
		t.Fatal("password should be sealed")
	}

	opts := resolveOpts(t, "", "")
	if err := Save(cfg, opts.ConfigPath); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	opts.Profile = "eu"

	t.Run("without master key", func(t *testing.T) {
		_, _, err := Resolve(opts)
		if err == nil || !strings.Contains(err.Error(), MasterKeyEnv) {
			t.Errorf("Resolve() error = %v, want hint about %s", err, MasterKeyEnv)
		}
	})

	t.Run("with master key", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "correct horse battery")
		s, _, err := Resolve(opts)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if s.Password != "hunter2" {
			t.Errorf("Password = %q, want hunter2", s.Password)
		}
	})
}

func TestVerify(t *testing.T) {
	valid := func() *Settings {
		s := DefaultSettings()
		s.Host = "127.0.0.1"
		s.Port = 7779
		s.Password = "pw"
		return s
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(*Settings) {}, ""},
		{"missing all", func(s *Settings) { s.Host, s.Port, s.Password = "", 0, "" }, "RCON_HOST, RCON_PORT, RCON_PASSWORD"},
		{"blank host", func(s *Settings) { s.Host = "  " }, "RCON_HOST"},
		{"port too large", func(s *Settings) { s.Port = 70000 }, "out of range"},
		{"negative port", func(s *Settings) { s.Port = -1 }, "out of range"},
		{"zero timeout", func(s *Settings) { s.Timeout = 0 }, "timeout"},
		{"zero buffer", func(s *Settings) { s.ReadBufferSize = 0 }, "read buffer"},
		{"huge buffer", func(s *Settings) { s.ReadBufferSize = 2 << 20 }, "read buffer"},
		{"negative delay", func(s *Settings) { s.LoginDelay = -time.Second }, "login delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := Verify(s)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want containing %q", err, tt.wantErr)
			}
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("Verify() error kind = %s", domain.Kind(err))
			}
		})
	}
}
