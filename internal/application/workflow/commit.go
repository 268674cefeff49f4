package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// CommitOptions are the flags of `gai commit`.
type CommitOptions struct {
	Yes     bool
	Message string
	Date    string
	// Extra is appended to `git commit`.
	Extra []string
}

// Commit generates a message for the staged diff and commits after confirmation.
// An explicit message skips generation and confirmation.
func (s *Service) Commit(ctx context.Context, opts CommitOptions) error {
	s.ensureHooks(ctx)

	commitOpts := ports.CommitOptions{Date: opts.Date, Extra: opts.Extra}
	if msg := strings.TrimSpace(opts.Message); msg != "" {
		if err := s.Repo.Commit(ctx, msg, commitOpts); err != nil {
			return err
		}
		s.Output.Success("Commit successful.")
		return nil
	}

	diff, err := s.Repo.StagedDiff(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDiff) {
			s.Output.Warn("No staged changes found.")
		}
		return err
	}
	g, err := s.generate(ctx, domain.KindCommit, domain.DiffContext(domain.SourceStagedDiff, diff))
	if err != nil {
		return err
	}
	res, err := s.confirm(ctx, g, "Use this commit message?", opts.Yes, nil)
	if err != nil {
		return err
	}
	if err := s.Repo.Commit(ctx, res.Artifact.Text, commitOpts); err != nil {
		return err
	}
	s.Output.Success("Commit successful.")
	return nil
}

// StashOptions are the flags of `gai stash`.
type StashOptions struct {
	Yes     bool
	Message string
	Extra   []string
}

// Stash names the working tree changes and stashes them after confirmation.
// Unstaged changes are described when present, otherwise the staged ones.
func (s *Service) Stash(ctx context.Context, opts StashOptions) error {
	if msg := strings.TrimSpace(opts.Message); msg != "" {
		if err := s.Repo.Stash(ctx, msg, opts.Extra...); err != nil {
			return err
		}
		s.Output.Success("Stashed successfully.")
		return nil
	}

	source := domain.SourceUnstagedDiff
	diff, err := s.Repo.UnstagedDiff(ctx)
	if errors.Is(err, domain.ErrEmptyDiff) {
		source = domain.SourceStagedDiff
		diff, err = s.Repo.StagedDiff(ctx)
	}
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDiff) {
			s.Output.Warn("No changes to stash.")
		}
		return err
	}

	g, err := s.generate(ctx, domain.KindStash, domain.DiffContext(source, diff))
	if err != nil {
		return err
	}
	res, err := s.confirm(ctx, g, "Use this stash message?", opts.Yes, nil)
	if err != nil {
		return err
	}
	if err := s.Repo.Stash(ctx, res.Artifact.Text, opts.Extra...); err != nil {
		return err
	}
	s.Output.Success("Stashed successfully.")
	return nil
}

// Test runs every pre-commit hook against all files.
func (s *Service) Test(ctx context.Context) error {
	s.ensureHooks(ctx)
	s.Output.Info("Running pre-commit hooks...")
	if err := s.Hooks.RunAll(ctx); err != nil {
		return err
	}
	s.Output.Success("Pre-commit hooks passed.")
	return nil
}

// ensureHooks installs pre-commit hooks on first use. Failure only warns.
func (s *Service) ensureHooks(ctx context.Context) {
	if s.Hooks == nil || s.RepoInfo == nil || !s.Config.Hooks.AutoInstall {
		return
	}
	if s.RepoInfo.HasHook("pre-commit") {
		return
	}
	if _, err := s.lookPath(s.Config.HookCommand()); err != nil {
		s.Output.Warn("Could not install pre-commit hooks: %s not found", s.Config.HookCommand())
		return
	}
	s.Output.Info("pre-commit hooks not found. Installing...")
	if err := s.Hooks.Install(ctx); err != nil {
		s.Output.Warn("Could not install pre-commit hooks: %v", err)
		return
	}
	s.Output.Success("pre-commit hooks installed successfully.")
}
