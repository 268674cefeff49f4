package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

const defaultRemote = "origin"

// Metadata reads repository facts directly from .git without spawning git.
type Metadata struct {
	repo *gogit.Repository
	root string
}

// OpenMetadata opens the repository containing dir.
func OpenMetadata(dir string) (*Metadata, error) {
	if dir == "" {
		dir = "."
	}
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("not a git repository: %s", dir)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root := dir
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &Metadata{repo: repo, root: root}, nil
}

// Root returns the worktree root.
func (m *Metadata) Root() string {
	return m.root
}

// CurrentBranch returns the checked out branch name.
func (m *Metadata) CurrentBranch() (string, error) {
	head, err := m.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}

// DefaultBranch follows refs/remotes/origin/HEAD, then looks for a local
// main or master, then falls back to "main".
func (m *Metadata) DefaultBranch() string {
	remote := defaultRemote
	if name, _, err := m.Remote(); err == nil {
		remote = name
	}
	if ref, err := m.repo.Reference(plumbing.NewRemoteHEADReferenceName(remote), false); err == nil {
		if ref.Type() == plumbing.SymbolicReference {
			return strings.TrimPrefix(ref.Target().Short(), remote+"/")
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := m.repo.Reference(plumbing.NewBranchReferenceName(candidate), false); err == nil {
			return candidate
		}
	}
	return domain.DefaultBaseBranch
}

// Remote returns origin when it exists, otherwise the first configured remote.
func (m *Metadata) Remote() (string, string, error) {
	remotes, err := m.repo.Remotes()
	if err != nil {
		return "", "", fmt.Errorf("list remotes: %w", err)
	}
	if len(remotes) == 0 {
		return "", "", errors.New("repository has no remotes")
	}
	chosen := remotes[0]
	for _, r := range remotes {
		if r.Config().Name == defaultRemote {
			chosen = r
			break
		}
	}
	cfg := chosen.Config()
	if len(cfg.URLs) == 0 {
		return cfg.Name, "", fmt.Errorf("remote %s has no URL", cfg.Name)
	}
	return cfg.Name, cfg.URLs[0], nil
}

// HasHook reports whether .git/hooks/name exists.
func (m *Metadata) HasHook(name string) bool {
	_, err := os.Stat(filepath.Join(m.root, ".git", "hooks", name))
	return err == nil
}

var _ ports.RepositoryInfo = (*Metadata)(nil)
