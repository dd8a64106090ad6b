package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/cli/repl"
	"github.com/yndnr/hllrcon-go/internal/core/domain"
)

// ExecCommand returns the exec command.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Aliases:   []string{"x"},
		Usage:     "Run commands on one session and print the replies",
		ArgsUsage: "COMMAND...",
		Description: `Each argument is sent as one command, in order:

   hllrcon exec "Get Name" "Get Slots"

With --file, commands are read one per line. Blank lines and lines
starting with # are skipped. Use "-" to read from stdin.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read commands from `FILE`",
			},
			&cli.BoolFlag{
				Name:  "continue",
				Usage: "Keep going after a command fails",
			},
		},
		Action: execAction,
	}
}

func execAction(c *cli.Context) error {
	cmds := c.Args().Slice()
	if path := c.String("file"); path != "" {
		fromFile, err := readCommandFile(c, path)
		if err != nil {
			return err
		}
		cmds = append(cmds, fromFile...)
	}
	if len(cmds) == 0 {
		return domain.ErrInvalidArgument.WithDetails("no commands given")
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

	var bar *output.ProgressBar
	if c.String("file") != "" && isTerminal(stderr(c)) {
		bar = output.NewProgressBar(stderr(c), "Sending", len(cmds))
	}

	var (
		exchanges []*domain.CommandExchange
		failed    int
		firstErr  error
	)
	for _, cmd := range cmds {
		x, err := st.manager.ExecuteExchange(c.Context, cmd)
		if bar != nil {
			bar.Step(err != nil)
		}
		if err == nil {
			exchanges = append(exchanges, x)
			continue
		}

		failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", cmd, err)
		}
		if !c.Bool("continue") || repl.IsFatal(err) {
			break
		}
		PrintError(stderr(c), "%s: %v", cmd, err)
	}
	if bar != nil {
		bar.Finish()
	}

	if len(exchanges) > 0 {
		var data any = exchanges
		if len(cmds) == 1 {
			data = exchanges[0]
		}
		if err := st.formatter.Format(stdout(c), data); err != nil {
			return err
		}
	}

	if failed > 0 && c.Bool("continue") && len(cmds) > 1 {
		return fmt.Errorf("%d of %d commands failed; first: %w", failed, len(cmds), firstErr)
	}
	return firstErr
}

// readCommandFile reads one command per line.
func readCommandFile(c *cli.Context, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin(c)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open command file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var cmds []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmds = append(cmds, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read command file: %w", err)
	}
	return cmds, nil
}
