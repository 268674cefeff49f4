// Package pr opens pull requests through the gh CLI or the hosting APIs.
package pr

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Host identifies a code hosting service.
type Host string

const (
	HostGitHub Host = "github"
	HostGitLab Host = "gitlab"
)

// ErrUnknownHost is returned for remotes that are neither GitHub nor GitLab.
var ErrUnknownHost = errors.New("unknown hosting provider")

// Remote is a parsed git remote URL.
type Remote struct {
	Host     Host
	Hostname string
	Owner    string
	Repo     string
}

// Project returns the "owner/repo" path.
func (r Remote) Project() string {
	return r.Owner + "/" + r.Repo
}

// DetectHost guesses the hosting service from a remote URL.
func DetectHost(remoteURL string) (Host, error) {
	lower := strings.ToLower(remoteURL)
	switch {
	case strings.Contains(lower, "github"):
		return HostGitHub, nil
	case strings.Contains(lower, "gitlab"):
		return HostGitLab, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownHost, remoteURL)
	}
}

// ParseRemote extracts host and repository path from SSH
// (git@host:owner/repo.git), ssh:// and HTTPS remote URLs. Nested GitLab
// groups are kept in Owner.
func ParseRemote(remoteURL string) (Remote, error) {
	raw := strings.TrimSpace(remoteURL)
	var hostname, path string

	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Remote{}, fmt.Errorf("invalid remote URL: %w", err)
		}
		hostname = u.Hostname()
		path = u.Path
	case strings.Contains(raw, "@") && strings.Contains(raw, ":"):
		rest := raw[strings.Index(raw, "@")+1:]
		hostname, path, _ = strings.Cut(rest, ":")
	default:
		return Remote{}, fmt.Errorf("invalid remote URL: %s", remoteURL)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return Remote{}, fmt.Errorf("invalid repository path in %s", remoteURL)
	}
	host, err := DetectHost(hostname)
	if err != nil {
		host = ""
	}
	return Remote{
		Host:     host,
		Hostname: hostname,
		Owner:    path[:idx],
		Repo:     path[idx+1:],
	}, nil
}
