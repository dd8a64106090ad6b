package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/repl"
	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

// ConsoleCommand returns the console command.
func ConsoleCommand() *cli.Command {
	return &cli.Command{
		Name:    "console",
		Aliases: []string{"shell"},
		Usage:   "Connect and start the interactive console (default)",
		Action:  consoleAction,
	}
}

func consoleAction(c *cli.Context) error {
	if c.Args().Present() {
		return domain.ErrInvalidArgument.WithDetailsf(
			"unexpected argument %q; use 'exec' to run commands", c.Args().First())
	}

	st, err := loadState(c)
	if err != nil {
		return err
	}
	defer writeMetrics(c, st)

	if err := connect(c, st); err != nil {
		return err
	}
	defer st.manager.Disconnect()

	in := stdin(c)
	console, err := repl.New(st.manager, repl.Config{
		HistoryFile: st.settings.HistoryFile,
		LoginDelay:  st.settings.LoginDelay,
		Interactive: isTerminal(in),
		Stdin:       in,
		Stdout:      stdout(c),
		Stderr:      stderr(c),
		Formatter:   st.formatter,
		Logger:      st.logger,
	})
	if err != nil {
		return err
	}
	return console.Run(c.Context)
}
