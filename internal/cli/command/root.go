package command

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/config"
	"github.com/yndnr/hllrcon-go/internal/cli/connection"
	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/cli/repl"
	"github.com/yndnr/hllrcon-go/internal/infra/buildinfo"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
	"github.com/yndnr/hllrcon-go/internal/telemetry/metric"
)

const stateKey = "state"

// App creates the CLI application.
func App() *cli.App {
	info := buildinfo.Get()

	app := &cli.App{
		Name:    "hllrcon",
		Usage:   "Hell Let Loose RCON client",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ConsoleCommand(),
			ExecCommand(),
			StatusCommand(),
			CommandsCommand(),
			ProfileCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Action: consoleAction,
		Before: func(c *cli.Context) error {
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			c.App.Metadata[stateKey] = &state{}
			return nil
		},
		After: func(c *cli.Context) error {
			st, ok := c.App.Metadata[stateKey].(*state)
			if !ok || st.manager == nil {
				return nil
			}
			return st.manager.Disconnect()
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
//
// Connection flags carry no EnvVars: RCON_* variables are read by the
// config loader so that they rank below flags and above profiles.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Aliases: []string{"H"},
			Usage:   "RCON server host (env RCON_HOST)",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "RCON server port (env RCON_PORT)",
		},
		&cli.StringFlag{
			Name:  "password",
			Usage: "RCON password (env RCON_PASSWORD)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Connect, read and write timeout (env RCON_TIMEOUT)",
			Value: config.DefaultTimeout,
		},
		&cli.IntFlag{
			Name:  "read-buffer",
			Usage: "Maximum bytes read per reply (env RCON_READ_BUFFER_SIZE)",
			Value: config.DefaultReadBufferSize,
		},
		&cli.DurationFlag{
			Name:  "login-delay",
			Usage: "Pause after login before the console prompt",
			Value: config.DefaultLoginDelay,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"P"},
			Usage:   "Saved server profile",
			EnvVars: []string{"RCON_PROFILE"},
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Dotenv file with RCON_* settings",
			Value: config.DefaultEnvFile,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write session metrics to this file on exit (Prometheus text format)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigPath  string
	Profile     string
	EnvFile     string
	Output      string
	Wide        bool
	MetricsFile string
	Verbose     bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigPath:  c.String("config"),
		Profile:     c.String("profile"),
		EnvFile:     c.String("env-file"),
		Output:      c.String("output"),
		Wide:        c.Bool("wide"),
		MetricsFile: c.String("metrics-file"),
		Verbose:     c.Bool("verbose"),
	}
}

// settingFlags maps flag names to settings keys.
var settingFlags = map[string]string{
	"host":        "host",
	"port":        "port",
	"password":    "password",
	"timeout":     "timeout",
	"read-buffer": "read_buffer_size",
	"login-delay": "login_delay",
	"output":      "output",
	"log-level":   "log_level",
	"log-format":  "log_format",
}

// explicitFlags returns the values of flags given on the command line.
func explicitFlags(c *cli.Context) map[string]any {
	values := make(map[string]any)
	for flag, key := range settingFlags {
		if !c.IsSet(flag) {
			continue
		}
		switch flag {
		case "port", "read-buffer":
			values[key] = c.Int(flag)
		case "timeout", "login-delay":
			values[key] = c.Duration(flag)
		default:
			values[key] = c.String(flag)
		}
	}
	if c.Bool("verbose") {
		values["log_level"] = "debug"
	}
	return values
}

// state is resolved once per invocation and shared by commands.
type state struct {
	settings  *config.Settings
	cliConfig *config.CLIConfig
	logger    logger.Logger
	metrics   *metric.Registry
	manager   *connection.Manager
	formatter output.Formatter
}

// loadState resolves settings and builds the logger and connection
// manager on first use.
func loadState(c *cli.Context) (*state, error) {
	st, ok := c.App.Metadata[stateKey].(*state)
	if !ok {
		st = &state{}
		if c.App.Metadata == nil {
			c.App.Metadata = make(map[string]any)
		}
		c.App.Metadata[stateKey] = st
	}
	if st.settings != nil {
		return st, nil
	}

	flags := ParseGlobalFlags(c)
	s, cfg, err := config.Resolve(config.ResolveOptions{
		ConfigPath: flags.ConfigPath,
		EnvFile:    flags.EnvFile,
		Profile:    flags.Profile,
		Flags:      explicitFlags(c),
	})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	format, err := output.ParseFormat(s.Output)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		Output: stderr(c),
	})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	logger.SetDefault(log)

	st.settings = s
	st.cliConfig = cfg
	st.logger = log
	st.metrics = metric.NewRegistry()
	st.manager = connection.NewManager(
		connection.WithLogger(log),
		connection.WithRecorder(st.metrics),
	)
	st.formatter = output.NewFormatter(format, flags.Wide)
	return st, nil
}

// writeMetrics writes the metrics textfile when --metrics-file is set.
func writeMetrics(c *cli.Context, st *state) {
	path := c.String("metrics-file")
	if path == "" || st.metrics == nil {
		return
	}
	if err := st.metrics.WriteTextfile(path); err != nil {
		st.logger.Warn("failed to write metrics file", "path", path, "error", err)
	}
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if st, ok := c.App.Metadata[stateKey].(*state); ok {
		return st.manager
	}
	return nil
}

func stdout(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func stdin(c *cli.Context) io.Reader {
	if c.App.Reader != nil {
		return c.App.Reader
	}
	return os.Stdin
}

// isTerminal reports whether v is a terminal file.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && repl.IsTerminal(f)
}

// PrintError prints an error message to stderr.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// elapsed formats a duration for status lines.
func elapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
