package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// SubmitOptions are the flags of `gai submit`.
type SubmitOptions struct {
	Yes   bool
	Draft bool
	Base  string
	// Extra is forwarded to `gh pr create`.
	Extra []string
}

// Submit describes the current branch against its base and opens a pull
// request with the confirmed title and body.
func (s *Service) Submit(ctx context.Context, opts SubmitOptions) error {
	if s.Config.UsesPRAPI() {
		if len(opts.Extra) > 0 {
			return fmt.Errorf("arguments %q need the gh backend; set pull_request.backend to gh", opts.Extra)
		}
	} else {
		if _, err := s.lookPath(domain.GHBinary); err != nil {
			return fmt.Errorf("the 'gh' command-line tool is not installed; install it from https://cli.github.com or set pull_request.backend to api: %w", err)
		}
	}

	base := s.baseBranch(opts.Base)
	head := ""
	if s.RepoInfo != nil {
		if branch, err := s.RepoInfo.CurrentBranch(); err == nil {
			head = branch
		}
	}
	if head != "" && head == base {
		return fmt.Errorf("current branch %q is the base branch; switch to a feature branch first", head)
	}

	diff, err := s.branchDiff(ctx, base)
	if err != nil {
		return err
	}

	g, err := s.generate(ctx, domain.KindSubmit, domain.DiffContext(domain.SourceBranchDiff, diff))
	if err != nil {
		return err
	}
	g.artifact, err = summaryArtifact(g.artifact)
	if err != nil {
		s.record(g, 1, domain.OutcomeFailed)
		return err
	}

	res, err := s.confirm(ctx, g, "Create pull request with this description?", opts.Yes, summaryArtifact)
	if err != nil {
		return err
	}
	summary := domain.PRSummaryFromText(res.Artifact.Text)
	if summary.Title == "" {
		return fmt.Errorf("%w: empty pull request title", domain.ErrRejected)
	}

	creator, err := s.PRCreator(ctx)
	if err != nil {
		return err
	}
	s.log().Debug("creating pull request", map[string]interface{}{
		"backend": creator.Name(),
		"base":    base,
		"head":    head,
	})
	url, err := creator.Create(ctx, ports.PROptions{
		Title: summary.Title,
		Body:  summary.Body,
		Base:  base,
		Head:  head,
		Draft: opts.Draft,
		Extra: opts.Extra,
	})
	if err != nil {
		return err
	}
	s.Output.Success("Pull request created: %s", url)
	return nil
}

// baseBranch resolves the flag, then the config, then the remote default.
func (s *Service) baseBranch(flag string) string {
	if b := strings.TrimSpace(flag); b != "" {
		return b
	}
	if b := strings.TrimSpace(s.Config.PullRequest.BaseBranch); b != "" {
		return b
	}
	if s.RepoInfo != nil {
		if b := s.RepoInfo.DefaultBranch(); b != "" {
			return b
		}
	}
	return domain.DefaultBaseBranch
}

// branchDiff diffs against base, retrying with the remote tracking branch
// when base only exists on the remote.
func (s *Service) branchDiff(ctx context.Context, base string) (string, error) {
	diff, err := s.Repo.BranchDiff(ctx, base)
	if err == nil || errors.Is(err, domain.ErrEmptyContext) || s.RepoInfo == nil {
		return diff, err
	}
	remote, _, rerr := s.RepoInfo.Remote()
	if rerr != nil || remote == "" || strings.HasPrefix(base, remote+"/") {
		return "", err
	}
	s.log().Debug("base branch not found locally, trying remote", map[string]interface{}{"base": base, "remote": remote})
	return s.Repo.BranchDiff(ctx, remote+"/"+base)
}

// summaryArtifact turns the model's JSON reply into the editable layout.
func summaryArtifact(a domain.GeneratedArtifact) (domain.GeneratedArtifact, error) {
	summary, err := domain.ParsePRSummary(a.Text)
	if err != nil {
		return domain.GeneratedArtifact{}, err
	}
	a.Text = summary.Text()
	return a, nil
}
