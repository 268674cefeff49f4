package pr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// GitHubCreator opens pull requests through the GitHub REST API.
type GitHubCreator struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubCreator builds a creator for owner/repo. apiURL is empty for github.com.
func NewGitHubCreator(token, owner, repo, apiURL string) (*GitHubCreator, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	if apiURL != "" {
		base, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL: %w", err)
		}
		client.BaseURL = base
	}
	return &GitHubCreator{client: client, owner: owner, repo: repo}, nil
}

func (c *GitHubCreator) Name() string {
	return "github"
}

// Create opens the pull request and returns its web URL.
func (c *GitHubCreator) Create(ctx context.Context, opts ports.PROptions) (string, error) {
	base := opts.Base
	if base == "" {
		base = domain.DefaultBaseBranch
	}
	pr, resp, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.String(opts.Title),
		Body:  github.String(opts.Body),
		Base:  github.String(base),
		Head:  github.String(opts.Head),
		Draft: github.Bool(opts.Draft),
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnprocessableEntity && strings.Contains(err.Error(), "already exists") {
			return "", fmt.Errorf("a pull request for %s already exists", opts.Head)
		}
		return "", fmt.Errorf("create pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}

var _ ports.PRCreator = (*GitHubCreator)(nil)
