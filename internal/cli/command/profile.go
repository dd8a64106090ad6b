package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/config"
	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

// ProfileRow is one line of `profile list`.
type ProfileRow struct {
	Name     string        `json:"name" yaml:"name"`
	Host     string        `json:"host" yaml:"host"`
	Port     int           `json:"port" yaml:"port"`
	Password string        `json:"password" yaml:"password"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" table:"wide"`
	Default  bool          `json:"default" yaml:"default"`
}

// ProfileCommand returns the profile subcommand group.
func ProfileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage saved server profiles",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved profiles",
				Action:  profileList,
			},
			{
				Name:      "add",
				Usage:     "Save a server profile",
				ArgsUsage: "NAME",
				Description: "The password is encrypted when " + config.MasterKeyEnv + " is set.\n" +
					"   Without a password the server password comes from RCON_PASSWORD at connect time.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "Server host", Required: true},
					&cli.IntFlag{Name: "port", Usage: "RCON port", Required: true},
					&cli.StringFlag{Name: "password", Usage: "RCON password"},
					&cli.DurationFlag{Name: "timeout", Usage: "Timeout override"},
					&cli.IntFlag{Name: "read-buffer", Usage: "Read buffer override"},
					&cli.BoolFlag{Name: "default", Usage: "Make this the default profile"},
					&cli.BoolFlag{Name: "force", Usage: "Replace an existing profile"},
				},
				Action: profileAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Delete a saved profile",
				ArgsUsage: "NAME",
				Action:    profileRemove,
			},
			{
				Name:      "use",
				Usage:     "Set the default profile",
				ArgsUsage: "NAME",
				Action:    profileUse,
			},
		},
	}
}

func profileList(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	names := cfg.ProfileNames()
	if len(names) == 0 {
		fmt.Fprintln(stdout(c), "No profiles saved. Add one with 'hllrcon profile add'.")
		return nil
	}

	rows := make([]ProfileRow, 0, len(names))
	for _, name := range names {
		p := config.SanitizeProfile(cfg.Profiles[name])
		rows = append(rows, ProfileRow{
			Name:     name,
			Host:     p.Host,
			Port:     p.Port,
			Password: passwordState(cfg.Profiles[name].Password),
			Timeout:  p.Timeout,
			Default:  name == cfg.DefaultProfile,
		})
	}

	formatter, err := profileFormatter(c, cfg)
	if err != nil {
		return err
	}
	return formatter.Format(stdout(c), rows)
}

func profileAdd(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return domain.ErrInvalidArgument.WithDetails("profile name required")
	}

	p := config.Profile{
		Host:           c.String("host"),
		Port:           c.Int("port"),
		Password:       c.String("password"),
		Timeout:        c.Duration("timeout"),
		ReadBufferSize: c.Int("read-buffer"),
	}
	if err := (domain.Endpoint{Host: p.Host, Port: p.Port}).Validate(); err != nil {
		return err
	}

	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, exists := cfg.Profiles[name]; exists && !c.Bool("force") {
		return domain.ErrInvalidArgument.WithDetailsf("profile %q already exists (use --force to replace it)", name)
	}

	vault, err := config.VaultFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.SetProfile(name, p, vault); err != nil {
		return err
	}
	if c.Bool("default") || len(cfg.Profiles) == 1 {
		cfg.DefaultProfile = name
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	msg := fmt.Sprintf("Profile %q saved", name)
	switch {
	case p.Password == "":
	case vault != nil:
		msg += " (password encrypted)"
	default:
		msg += fmt.Sprintf(" (password stored in plain text; set %s to encrypt)", config.MasterKeyEnv)
	}
	fmt.Fprintln(stdout(c), msg)
	return nil
}

func profileRemove(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return domain.ErrInvalidArgument.WithDetails("profile name required")
	}

	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if !cfg.RemoveProfile(name) {
		return domain.ErrInvalidArgument.WithDetailsf("profile %q not found", name)
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(stdout(c), "Profile %q removed\n", name)
	return nil
}

func profileUse(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return domain.ErrInvalidArgument.WithDetails("profile name required")
	}

	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return domain.ErrInvalidArgument.WithDetailsf("profile %q not found", name)
	}
	cfg.DefaultProfile = name
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(stdout(c), "Default profile is now %q\n", name)
	return nil
}

// profileFormatter picks the output format from --output, then cli.yaml.
func profileFormatter(c *cli.Context, cfg *config.CLIConfig) (output.Formatter, error) {
	name := c.String("output")
	if name == "" {
		name = cfg.Output
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	if format == output.FormatText {
		format = output.FormatTable
	}
	return output.NewFormatter(format, c.Bool("wide")), nil
}

func passwordState(password string) string {
	switch {
	case password == "":
		return "none"
	case config.IsSealed(password):
		return "encrypted"
	default:
		return "plain"
	}
}
