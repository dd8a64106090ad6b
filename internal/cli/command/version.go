package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show build information",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	info := buildinfo.Get()

	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	if format != output.FormatText {
		return output.NewFormatter(format, false).Format(stdout(c), info)
	}

	w := stdout(c)
	fmt.Fprintf(w, "hllrcon %s\n", info.Version)
	fmt.Fprintf(w, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(w, "  Built:      %s\n", info.BuildTime)
	fmt.Fprintf(w, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "  Platform:   %s\n", info.Platform)
	return nil
}
