package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/config"
	"github.com/yndnr/hllrcon-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (password masked)",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Check that the configuration can open a session",
				Action: configValidate,
			},
			{
				Name:   "path",
				Usage:  "Print the CLI config file path",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	st, err := loadState(c)
	if err != nil {
		return err
	}

	formatter := st.formatter
	if _, ok := formatter.(*output.TextFormatter); ok {
		formatter = &output.YAMLFormatter{}
	}
	return formatter.Format(stdout(c), config.Sanitize(st.settings))
}

func configValidate(c *cli.Context) error {
	st, err := loadState(c)
	if err != nil {
		return err
	}
	if err := config.Verify(st.settings); err != nil {
		fmt.Fprintf(stdout(c), "✗ Configuration is invalid\n")
		return err
	}

	fmt.Fprintf(stdout(c), "✓ Configuration is valid: %s\n", st.settings.Endpoint())
	return nil
}

func configPath(c *cli.Context) error {
	path := c.String("config")
	fmt.Fprintln(stdout(c), path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(stderr(c), "(file does not exist; defaults are used)")
	}
	return nil
}
