package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/cli/repl"
)

// CommandsCommand returns the commands command.
func CommandsCommand() *cli.Command {
	return &cli.Command{
		Name:      "commands",
		Usage:     "List the server command reference",
		ArgsUsage: "[FILTER]",
		Action:    commandsAction,
	}
}

func commandsAction(c *cli.Context) error {
	filter := strings.Join(c.Args().Slice(), " ")

	st, err := loadState(c)
	if err != nil {
		return err
	}

	if _, ok := st.formatter.(*output.TextFormatter); ok {
		return repl.WriteHelp(stdout(c), filter)
	}
	return st.formatter.Format(stdout(c), repl.FilterCommands(filter))
}
