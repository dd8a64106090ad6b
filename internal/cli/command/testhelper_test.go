package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/hllrcon-go/internal/server/mockserver"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

const testPassword = "secret"

// startServer runs a mock RCON server until the test ends.
func startServer(t *testing.T) *mockserver.Server {
	t.Helper()

	cfg := mockserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.Password = testPassword

	srv := mockserver.New(cfg, nil, mockserver.WithLogger(logger.Discard()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

// testEnv isolates a CLI run from the user's home directory and RCON_*
// variables.
type testEnv struct {
	t          *testing.T
	dir        string
	configPath string
	envFile    string
	stdin      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "RCON_") || name == "HLLRCON_MASTER_KEY" {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return &testEnv{
		t:          t,
		dir:        dir,
		configPath: filepath.Join(dir, "cli.yaml"),
		envFile:    filepath.Join(dir, ".env"),
	}
}

type runResult struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with isolated config and env files.
func (e *testEnv) run(args ...string) runResult {
	e.t.Helper()

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader(e.stdin)

	full := append([]string{"hllrcon", "--config", e.configPath, "--env-file", e.envFile, "--log-level", "error"}, args...)
	err := app.Run(full)
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		e.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// serverArgs returns the connection flags for srv.
func serverArgs(srv *mockserver.Server, password string) []string {
	ep := srv.Endpoint()
	return []string{"--host", ep.Host, "--port", strconv.Itoa(ep.Port), "--password", password, "--timeout", "2s"}
}

func joinArgs(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
