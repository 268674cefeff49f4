package pr

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xanzy/go-gitlab"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// GitLabCreator opens merge requests through the GitLab API.
type GitLabCreator struct {
	client    *gitlab.Client
	projectID string
}

// NewGitLabCreator builds a creator. baseURL is empty for gitlab.com.
func NewGitLabCreator(token, baseURL, projectID string) (*GitLabCreator, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	var client *gitlab.Client
	var err error
	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}
	return &GitLabCreator{client: client, projectID: projectID}, nil
}

func (c *GitLabCreator) Name() string {
	return "gitlab"
}

// Create opens the merge request. Drafts use the "Draft: " title prefix,
// which every GitLab version understands.
func (c *GitLabCreator) Create(ctx context.Context, opts ports.PROptions) (string, error) {
	target := opts.Base
	if target == "" {
		target = domain.DefaultBaseBranch
	}
	title := opts.Title
	if opts.Draft {
		title = "Draft: " + title
	}
	mr, resp, err := c.client.MergeRequests.CreateMergeRequest(c.projectID, &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(opts.Body),
		SourceBranch: gitlab.Ptr(opts.Head),
		TargetBranch: gitlab.Ptr(target),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return "", fmt.Errorf("a merge request for %s already exists", opts.Head)
		}
		return "", fmt.Errorf("create merge request: %w", err)
	}
	return mr.WebURL, nil
}

var _ ports.PRCreator = (*GitLabCreator)(nil)
