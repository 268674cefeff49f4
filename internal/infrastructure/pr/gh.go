package pr

import (
	"context"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/ports"
)

// GHCreator shells out to `gh pr create`.
type GHCreator struct {
	runner git.Runner
	dir    string
}

// NewGHCreator builds a creator running gh in dir.
func NewGHCreator(runner git.Runner, dir string) *GHCreator {
	return &GHCreator{runner: runner, dir: dir}
}

func (c *GHCreator) Name() string {
	return domain.GHBinary
}

// Create runs gh and returns the URL it prints.
func (c *GHCreator) Create(ctx context.Context, opts ports.PROptions) (string, error) {
	args := []string{"pr", "create", "--title", opts.Title, "--body", opts.Body}
	if opts.Draft {
		args = append(args, "--draft")
	}
	if opts.Base != "" {
		args = append(args, "--base", opts.Base)
	}
	if opts.Head != "" {
		args = append(args, "--head", opts.Head)
	}
	args = append(args, opts.Extra...)
	res, err := c.runner.Run(ctx, git.Command{Dir: c.dir, Name: domain.GHBinary, Args: args})
	if err != nil {
		return "", err
	}
	return lastLine(res.Stdout), nil
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ ports.PRCreator = (*GHCreator)(nil)
