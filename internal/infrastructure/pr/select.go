package pr

import (
	"fmt"
	"os"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/ports"
)

// TokenEnvVars lists the variables holding an API token per host, in order.
var TokenEnvVars = map[Host][]string{
	HostGitHub: {"GITHUB_TOKEN", "GH_TOKEN", "GIT_TOKEN"},
	HostGitLab: {"GITLAB_TOKEN", "GIT_TOKEN"},
}

// Token returns the first non-empty token for host.
func Token(host Host, lookup func(string) string) string {
	if lookup == nil {
		lookup = os.Getenv
	}
	for _, name := range TokenEnvVars[host] {
		if v := lookup(name); v != "" {
			return v
		}
	}
	return ""
}

// NewCreator picks the creator for the configured backend. With the api
// backend the remote decides between GitHub and GitLab; without a token it
// falls back to gh.
func NewCreator(cfg domain.Config, remoteURL string, runner git.Runner, dir string, lookup func(string) string) (ports.PRCreator, error) {
	gh := NewGHCreator(runner, dir)
	if !cfg.UsesPRAPI() {
		return gh, nil
	}
	remote, err := ParseRemote(remoteURL)
	if err != nil {
		return nil, err
	}
	token := Token(remote.Host, lookup)
	if token == "" {
		return gh, nil
	}
	switch remote.Host {
	case HostGitHub:
		apiURL := ""
		if remote.Hostname != "github.com" {
			apiURL = "https://" + remote.Hostname + "/api/v3/"
		}
		return NewGitHubCreator(token, remote.Owner, remote.Repo, apiURL)
	case HostGitLab:
		baseURL := ""
		if remote.Hostname != "gitlab.com" {
			baseURL = "https://" + remote.Hostname
		}
		return NewGitLabCreator(token, baseURL, remote.Project())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownHost, remoteURL)
	}
}
