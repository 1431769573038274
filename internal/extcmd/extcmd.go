// Package extcmd runs the external validator and statistics programs used by
// table checks (positionalTblCheck, checkTableCoords, featureBits, tdbQuery).
package extcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Command is a program and its arguments. Commands are never run through a shell.
type Command struct {
	Program string
	Args    []string
}

// New builds a Command.
func New(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// String renders the command as a shell-quoted line that can be pasted into
// a terminal to reproduce the run.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Program}, c.Args...)...)
}

// Runner executes commands. The exit code is the program's exit status; err
// is non-nil only when the program could not be run at all or ctx was
// cancelled.
type Runner interface {
	Run(ctx context.Context, cmd Command, stdout, stderr io.Writer) (exitCode int, err error)
}

// DefaultWaitDelay bounds how long Run waits for output pipes after a
// cancelled program has been killed.
const DefaultWaitDelay = 5 * time.Second

// ExecRunner runs commands as child processes. No timeout is applied; the
// call blocks until the program exits or ctx is cancelled.
type ExecRunner struct {
	// Dir is the working directory for child processes. Empty means the
	// current directory.
	Dir string

	// WaitDelay is passed to exec.Cmd.WaitDelay. Zero means DefaultWaitDelay.
	WaitDelay time.Duration
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, cmd Command, stdout, stderr io.Writer) (int, error) {
	c := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	c.Dir = r.Dir
	c.Stdout = stdout
	c.Stderr = stderr
	c.WaitDelay = r.WaitDelay
	if c.WaitDelay <= 0 {
		c.WaitDelay = DefaultWaitDelay
	}

	err := c.Run()
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, fmt.Errorf("%s cancelled: %w", cmd.Program, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to run %s: %w", cmd.Program, err)
}

// ExitError reports a command that ran but exited non-zero. Stderr holds the
// captured error stream for diagnostics.
type ExitError struct {
	Command  Command
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command.Program, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Output runs cmd and captures both streams. A non-zero exit is returned as
// an *ExitError.
func Output(ctx context.Context, r Runner, cmd Command) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer

	code, err := r.Run(ctx, cmd, &outBuf, &errBuf)
	if err != nil {
		return "", "", err
	}
	if code != 0 {
		return outBuf.String(), errBuf.String(), &ExitError{Command: cmd, ExitCode: code, Stderr: errBuf.String()}
	}
	return outBuf.String(), errBuf.String(), nil
}
