// Package repl provides the interactive console for hllrcon.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/yndnr/hllrcon-go/internal/cli/output"
	"github.com/yndnr/hllrcon-go/internal/core/domain"
	"github.com/yndnr/hllrcon-go/internal/telemetry/logger"
)

// DefaultPrompt is shown before every input line.
const DefaultPrompt = "rcon> "

// Executor sends one command and returns the decoded reply.
// *connection.Manager satisfies it.
type Executor interface {
	Execute(ctx context.Context, cmd string) (string, error)
}

// LineReader supplies input lines. It returns io.EOF at end of input and
// readline.ErrInterrupt when the user presses Ctrl-C.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// historySaver is implemented by readers with their own history list.
type historySaver interface {
	SaveHistory(string) error
}

// Config holds console settings.
type Config struct {
	Prompt      string
	HistoryFile string
	LoginDelay  time.Duration

	// Interactive enables line editing through readline. Otherwise lines are
	// read plainly from Stdin.
	Interactive bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Formatter output.Formatter
	Logger    logger.Logger
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	exec      Executor
	reader    LineReader
	output    io.Writer
	errOutput io.Writer
	formatter output.Formatter
	completer *Completer
	history   *History
	delay     time.Duration
	logger    logger.Logger
}

// New creates a console over exec.
func New(exec Executor, cfg Config) (*REPL, error) {
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = &output.TextFormatter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	r := &REPL{
		exec:      exec,
		output:    cfg.Stdout,
		errOutput: cfg.Stderr,
		formatter: cfg.Formatter,
		completer: NewCompleter(),
		history:   NewHistory(cfg.HistoryFile),
		delay:     cfg.LoginDelay,
		logger:    cfg.Logger,
	}

	if cfg.Interactive {
		stdin, ok := cfg.Stdin.(io.ReadCloser)
		if !ok {
			stdin = io.NopCloser(cfg.Stdin)
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:                 cfg.Prompt,
			AutoComplete:           r.completer,
			InterruptPrompt:        "^C",
			EOFPrompt:              "exit",
			DisableAutoSaveHistory: true,
			HistoryLimit:           DefaultHistorySize,
			HistorySearchFold:      true,
			Stdin:                  stdin,
			Stdout:                 cfg.Stdout,
			Stderr:                 cfg.Stderr,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create readline: %w", err)
		}
		r.reader = rl
		r.output = rl.Stdout()
		r.errOutput = rl.Stderr()
	} else {
		r.reader = newPlainReader(cfg.Stdin, cfg.Stdout, cfg.Prompt)
	}
	return r, nil
}

// Run reads commands until exit, end of input or a connection failure.
// A connection failure is returned; everything else ends with nil.
func (r *REPL) Run(ctx context.Context) error {
	defer r.close()

	if err := r.history.Load(); err != nil {
		r.logger.Warn("failed to load history", "error", err)
	}
	if hs, ok := r.reader.(historySaver); ok {
		for _, e := range r.history.Entries() {
			_ = hs.SaveHistory(e)
		}
	}

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil
		}
	}
	fmt.Fprintln(r.output, "Type 'help' for commands or 'exit' to quit.")

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if r.history.Add(line) {
			if hs, ok := r.reader.(historySaver); ok {
				_ = hs.SaveHistory(line)
			}
		}

		lower := strings.ToLower(line)
		switch {
		case lower == "exit" || lower == "quit":
			return nil
		case lower == "help" || strings.HasPrefix(lower, "help "):
			_ = WriteHelp(r.output, strings.TrimSpace(line[len("help"):]))
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.errOutput, "error: %v\n", err)
			if IsFatal(err) {
				return err
			}
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	start := time.Now()
	reply, err := r.exec.Execute(ctx, line)
	if err != nil {
		return err
	}

	x := &domain.CommandExchange{
		Request:       line,
		ResponseBytes: []byte(reply),
		ResponseText:  reply,
		Duration:      time.Since(start),
	}
	return r.formatter.Format(r.output, x)
}

func (r *REPL) close() {
	if err := r.history.Save(); err != nil {
		r.logger.Warn("failed to save history", "error", err)
	}
	_ = r.reader.Close()
}

// IsFatal reports whether err leaves the session unusable.
func IsFatal(err error) bool {
	return errors.Is(err, domain.ErrConnection) ||
		errors.Is(err, domain.ErrProtocol) ||
		errors.Is(err, domain.ErrInvalidState)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return readline.IsTerminal(int(f.Fd()))
}

// plainReader reads lines without editing, for pipes and tests.
type plainReader struct {
	r      *bufio.Reader
	w      io.Writer
	prompt string
}

func newPlainReader(in io.Reader, out io.Writer, prompt string) *plainReader {
	return &plainReader{r: bufio.NewReader(in), w: out, prompt: prompt}
}

func (p *plainReader) Readline() (string, error) {
	fmt.Fprint(p.w, p.prompt)
	line, err := p.r.ReadString('\n')
	if err == io.EOF && line != "" {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err == io.EOF {
		fmt.Fprintln(p.w)
	}
	return strings.TrimRight(line, "\r\n"), err
}

func (p *plainReader) Close() error { return nil }
