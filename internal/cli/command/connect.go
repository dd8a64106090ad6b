package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hllrcon-go/internal/cli/config"
	"github.com/yndnr/hllrcon-go/internal/cli/connection"
	"github.com/yndnr/hllrcon-go/internal/cli/output"
)

// connect verifies the settings, then dials and logs in. A spinner is
// shown while waiting when stderr is a terminal.
func connect(c *cli.Context, st *state) error {
	s := st.settings
	if err := config.Verify(s); err != nil {
		return err
	}

	conn := &connection.Connection{
		Name:           s.Profile,
		Endpoint:       s.Endpoint(),
		Credential:     s.Credential(),
		Timeout:        s.Timeout,
		ReadBufferSize: s.ReadBufferSize,
	}
	addr := conn.Endpoint.Address()

	var spinner *output.Spinner
	if isTerminal(stderr(c)) {
		spinner = output.NewSpinner(stderr(c), fmt.Sprintf("Connecting to %s...", addr))
		spinner.Start()
	}

	start := time.Now()
	err := st.manager.Connect(c.Context, conn)
	if spinner != nil {
		if err != nil {
			spinner.Fail("Connection failed")
		} else {
			spinner.Success(fmt.Sprintf("Connected to %s (%s)", addr, elapsed(time.Since(start))))
		}
	}
	if err != nil {
		return fmt.Errorf("connect %s: %w", addr, err)
	}

	st.logger.Info("connected", "address", addr, "profile", s.Profile)
	return nil
}
