package rollover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Command is one external program invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
}

// NewCommand builds a Command.
func NewCommand(dir, name string, args ...string) Command {
	return Command{Dir: dir, Name: name, Args: args}
}

// String renders the command line the way an operator would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor runs external commands.
type Executor interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// CommandError is returned when a command exits non-zero or cannot start.
type CommandError struct {
	Command  Command
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

var tagExistsPattern = regexp.MustCompile(`tag '([^']+)' already exists`)

// ExistingTag reports the tag name when err is a git failure caused by
// creating a tag that already exists.
func ExistingTag(err error) (string, bool) {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return "", false
	}
	m := tagExistsPattern.FindStringSubmatch(cmdErr.Stderr)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ShellExecutor runs commands synchronously, streaming their output to
// Stdout/Stderr while also capturing it.
type ShellExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Log    zerolog.Logger
}

// NewShellExecutor streams to the process's own stdout and stderr.
func NewShellExecutor(log zerolog.Logger) *ShellExecutor {
	return &ShellExecutor{Stdout: os.Stdout, Stderr: os.Stderr, Log: log}
}

// Run executes cmd and returns its captured stdout.
func (e *ShellExecutor) Run(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = e.Stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = teeTo(&stdout, e.Stdout)
	c.Stderr = teeTo(&stderr, e.Stderr)

	e.Log.Debug().Str("cmd", cmd.String()).Str("dir", cmd.Dir).Msg("running command")
	if err := c.Run(); err != nil {
		cmdErr := &CommandError{Command: cmd, ExitCode: -1, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		e.Log.Debug().Str("cmd", cmd.String()).Int("exit", cmdErr.ExitCode).Msg("command failed")
		return stdout.String(), cmdErr
	}
	return stdout.String(), nil
}

func teeTo(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}

// DryRunExecutor prints each command instead of running it.
type DryRunExecutor struct {
	Out io.Writer
}

// Run prints cmd and reports success with no output.
func (e *DryRunExecutor) Run(_ context.Context, cmd Command) (string, error) {
	if e.Out != nil {
		fmt.Fprintf(e.Out, "[dry] %s\n", cmd)
	}
	return "", nil
}
