package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/infra/buildinfo"
	"github.com/yndnr/hllrcon-go/internal/infra/shutdown"
	"github.com/yndnr/hllrcon-go/internal/server/config"
	"github.com/yndnr/hllrcon-go/internal/server/httpserver"
	"github.com/yndnr/hllrcon-go/internal/server/mockserver"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

var errNotRunning = errors.New("RCON listener is not running")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	info := buildinfo.Get()

	return &cli.App{
		Name:    "hllrcon-mock",
		Usage:   "Local Hell Let Loose RCON server for testing",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file with HLLRCON_MOCK_* settings",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "RCON listen address",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Accepted RCON password",
			},
			&cli.IntFlag{
				Name:  "key-length",
				Usage: "Per-connection XOR key length",
			},
			&cli.Float64Flag{
				Name:  "rate-limit",
				Usage: "Commands per second per connection (0 disables)",
			},
			&cli.DurationFlag{
				Name:  "response-delay",
				Usage: "Delay added before every reply",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "Health and metrics listen address (empty disables)",
			},
			&cli.StringFlag{
				Name:    "responses",
				Aliases: []string{"r"},
				Usage:   "YAML response table",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the response table when it changes",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text, json",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"), c.String("env-file"), flagOverrides(c))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg, c.App.Writer)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting hllrcon-mock",
		"version", info.Version,
		"commit", info.Commit,
		"config", c.String("config"))
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	responses, err := initResponses(cfg)
	if err != nil {
		return fmt.Errorf("load responses: %w", err)
	}

	metrics := metric.NewRegistry()
	srv := mockserver.New(&cfg.RCON, responses,
		mockserver.WithLogger(log),
		mockserver.WithRecorder(metrics),
	)
	if err := srv.Start(c.Context); err != nil {
		return fmt.Errorf("start RCON listener: %w", err)
	}

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	// Register shutdown hooks (reverse order of startup)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down RCON listener")
		return srv.Shutdown(ctx)
	})

	if cfg.Responses.Watch {
		watcher, err := responses.Watch(cfg.Responses.File, log)
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("watch responses: %w", err)
		}
		shutdownHandler.OnShutdown(func(context.Context) error {
			return watcher.Stop()
		})
		log.Info("watching response table", "path", cfg.Responses.File)
	}

	if cfg.HTTP.Addr != "" {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics:     metrics.Handler(),
			Ready:       readiness(srv),
			Status:      statusFunc(srv, responses),
			Logger:      log,
			RateLimit:   cfg.HTTP.RateLimit,
			EnableAudit: cfg.HTTP.Audit,
		})
		httpServer := httpserver.New(cfg.HTTP.Addr, router)

		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down HTTP server")
			return httpServer.Shutdown(ctx)
		})

		go func() {
			log.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
			if err := httpServer.ListenAndServe(); err != nil {
				log.Error("HTTP server error", "error", err)
			}
		}()
	}

	log.Info("server started, press Ctrl+C to stop",
		"address", srv.Addr().String(),
		"responses", responses.Len())
	if err := shutdownHandler.WaitContext(c.Context); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// overrideFlags maps flag names to configuration keys.
var overrideFlags = map[string]string{
	"address":        "rcon.address",
	"password":       "rcon.password",
	"key-length":     "rcon.key_length",
	"rate-limit":     "rcon.rate_limit",
	"response-delay": "rcon.response_delay",
	"http-addr":      "http.addr",
	"responses":      "responses.file",
	"watch":          "responses.watch",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// flagOverrides returns the configuration keys set on the command line.
func flagOverrides(c *cli.Context) map[string]any {
	values := make(map[string]any)
	for flag, key := range overrideFlags {
		if c.IsSet(flag) {
			values[key] = c.Value(flag)
		}
	}
	return values
}

// initLogger initializes the structured logger.
func initLogger(cfg *config.MockConfig, w io.Writer) (logger.Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initResponses loads the response table, falling back to the built-in one.
func initResponses(cfg *config.MockConfig) (*mockserver.Responses, error) {
	if cfg.Responses.File == "" {
		return mockserver.DefaultResponses(), nil
	}
	return mockserver.LoadResponses(cfg.Responses.File)
}

func readiness(srv *mockserver.Server) func() error {
	return func() error {
		if !srv.Running() {
			return errNotRunning
		}
		return nil
	}
}

// Status is the body of GET /status.
type Status struct {
	Address     string                `json:"address"`
	Responses   int                   `json:"responses"`
	Connections []mockserver.ConnInfo `json:"connections"`
}

func statusFunc(srv *mockserver.Server, responses *mockserver.Responses) func() any {
	return func() any {
		st := Status{
			Responses:   responses.Len(),
			Connections: srv.Connections(),
		}
		if addr := srv.Addr(); addr != nil {
			st.Address = addr.String()
		}
		return st
	}
}
