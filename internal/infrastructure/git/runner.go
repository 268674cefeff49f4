package git

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/doeshing/gai-go/internal/domain"
)

// Command describes one subprocess invocation.
type Command struct {
	Dir  string
	Name string
	Args []string
	// Env is appended to the current process environment.
	Env   []string
	Stdin io.Reader
	// Interactive attaches the process to the terminal instead of capturing output.
	Interactive bool
}

// Result holds captured output and the exit status.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes commands. Tests substitute a scripted implementation.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecRunner builds a runner whose interactive commands use the process stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
}

// Run implements Runner. A non-zero exit returns a *domain.ToolError carrying
// the exit code and stderr verbatim. Interactive commands are not bound to
// ctx: the terminal delivers SIGINT to git itself and git decides how to exit.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	var c *exec.Cmd
	if cmd.Interactive {
		c = exec.Command(cmd.Name, cmd.Args...)
	} else {
		c = exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	}
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	if cmd.Interactive {
		c.Stdin = r.stdin
		c.Stdout = r.stdout
		c.Stderr = r.stderr
	} else {
		c.Stdin = cmd.Stdin
		c.Stdout = &stdout
		c.Stderr = &stderr
	}

	err := c.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	toolErr := &domain.ToolError{
		Tool:   cmd.Name,
		Args:   cmd.Args,
		Stderr: result.Stderr,
		Err:    err,
	}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		result.ExitCode = exitCode(exitErr)
	case errors.Is(err, exec.ErrNotFound):
		result.ExitCode = 127
	default:
		result.ExitCode = 1
	}
	toolErr.ExitCode = result.ExitCode
	return result, toolErr
}

// exitCode follows the shell convention of 128+signal for a process killed
// by a signal, where ExitCode reports -1.
func exitCode(err *exec.ExitError) int {
	if status, ok := err.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	if code := err.ExitCode(); code >= 0 {
		return code
	}
	return 1
}

var _ Runner = (*ExecRunner)(nil)
