// Package gittest provides a scripted git.Runner for tests.
package gittest

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
)

// Call is one recorded command together with what it read from stdin.
type Call struct {
	git.Command
	Input string
}

// Runner replays queued results in order and records every command.
type Runner struct {
	Calls   []Call
	results []scripted
}

type scripted struct {
	match  string
	result git.Result
}

// NewRunner returns an empty script.
func NewRunner() *Runner {
	return &Runner{}
}

// Expect queues a result for the next command whose joined arguments start
// with prefix (empty matches anything).
func (r *Runner) Expect(prefix string, result git.Result) *Runner {
	r.results = append(r.results, scripted{match: prefix, result: result})
	return r
}

// Run implements git.Runner.
func (r *Runner) Run(_ context.Context, cmd git.Command) (git.Result, error) {
	call := Call{Command: cmd}
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		call.Input = string(data)
		call.Stdin = bytes.NewReader(data)
	}
	r.Calls = append(r.Calls, call)

	line := strings.Join(cmd.Args, " ")
	if len(r.results) == 0 {
		return git.Result{}, &domain.ToolError{Tool: cmd.Name, Args: cmd.Args, ExitCode: 1, Stderr: "unexpected command: " + line}
	}
	next := r.results[0]
	r.results = r.results[1:]
	if next.match != "" && !strings.HasPrefix(line, next.match) {
		return git.Result{}, &domain.ToolError{Tool: cmd.Name, Args: cmd.Args, ExitCode: 1, Stderr: "unexpected command: " + line + " (want " + next.match + ")"}
	}
	if next.result.ExitCode != 0 {
		return next.result, &domain.ToolError{
			Tool:     cmd.Name,
			Args:     cmd.Args,
			ExitCode: next.result.ExitCode,
			Stderr:   next.result.Stderr,
		}
	}
	return next.result, nil
}

// Stdin returns what the n-th recorded command received on stdin.
func (r *Runner) Stdin(n int) string {
	if n >= len(r.Calls) {
		return ""
	}
	return r.Calls[n].Input
}

var _ git.Runner = (*Runner)(nil)
