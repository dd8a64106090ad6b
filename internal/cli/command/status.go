package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/output"
)

// ServerStatus summarizes a server from a few read-only queries.
type ServerStatus struct {
	Address   string `json:"address" yaml:"address"`
	Name      string `json:"name" yaml:"name"`
	Map       string `json:"map" yaml:"map"`
	Slots     string `json:"slots" yaml:"slots"`
	GameState string `json:"game_state,omitempty" yaml:"game_state,omitempty" table:"wide"`
}

// statusQueries are sent in order; each reply fills one field.
var statusQueries = []struct {
	cmd string
	set func(*ServerStatus, string)
}{
	{"Get Name", func(s *ServerStatus, v string) { s.Name = v }},
	{"Get Map", func(s *ServerStatus, v string) { s.Map = v }},
	{"Get Slots", func(s *ServerStatus, v string) { s.Slots = v }},
	{"Get GameState", func(s *ServerStatus, v string) { s.GameState = v }},
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show server name, map and player count",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	st, err := loadState(c)
	if err != nil {
		return err
	}
	defer writeMetrics(c, st)

	if err := connect(c, st); err != nil {
		return err
	}
	defer st.manager.Disconnect()

	status := &ServerStatus{Address: st.settings.Endpoint().Address()}
	for _, q := range statusQueries {
		reply, err := st.manager.Execute(c.Context, q.cmd)
		if err != nil {
			return fmt.Errorf("%s: %w", q.cmd, err)
		}
		q.set(status, strings.TrimSpace(reply))
	}

	if _, ok := st.formatter.(*output.TextFormatter); !ok {
		return st.formatter.Format(stdout(c), status)
	}

	w := stdout(c)
	fmt.Fprintf(w, "Server Status\n")
	fmt.Fprintf(w, "=============\n\n")
	fmt.Fprintf(w, "Address:    %s\n", status.Address)
	fmt.Fprintf(w, "Name:       %s\n", status.Name)
	fmt.Fprintf(w, "Map:        %s\n", status.Map)
	fmt.Fprintf(w, "Players:    %s\n", status.Slots)
	if status.GameState != "" {
		fmt.Fprintf(w, "Game state: %s\n", strings.ReplaceAll(status.GameState, "\n", "\n            "))
	}
	return nil
}
