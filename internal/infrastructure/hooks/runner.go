// Package hooks drives the pre-commit hook runner.
package hooks

import (
	"context"

	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/ports"
)

// PreCommit runs a pre-commit compatible binary.
type PreCommit struct {
	runner  git.Runner
	dir     string
	command string
}

// NewPreCommit builds a hook runner for command (usually "pre-commit").
func NewPreCommit(runner git.Runner, dir, command string) *PreCommit {
	return &PreCommit{runner: runner, dir: dir, command: command}
}

// Install writes the git hook scripts.
func (p *PreCommit) Install(ctx context.Context) error {
	_, err := p.runner.Run(ctx, git.Command{Dir: p.dir, Name: p.command, Args: []string{"install"}})
	return err
}

// RunAll runs every hook against all files with output on the terminal.
func (p *PreCommit) RunAll(ctx context.Context) error {
	_, err := p.runner.Run(ctx, git.Command{
		Dir:         p.dir,
		Name:        p.command,
		Args:        []string{"run", "--all-files"},
		Interactive: true,
	})
	return err
}

var _ ports.HookRunner = (*PreCommit)(nil)
