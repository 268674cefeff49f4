package git

import (
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

func TestMetadataRemoteAndDefaultBranch(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit error: %v", err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:doeshing/gai.git"},
	}); err != nil {
		t.Fatalf("CreateRemote error: %v", err)
	}

	meta, err := OpenMetadata(dir)
	if err != nil {
		t.Fatalf("OpenMetadata error: %v", err)
	}
	name, url, err := meta.Remote()
	if err != nil {
		t.Fatalf("Remote error: %v", err)
	}
	if name != "origin" || url != "git@github.com:doeshing/gai.git" {
		t.Fatalf("unexpected remote %s %s", name, url)
	}
	if got := meta.DefaultBranch(); got != "main" {
		t.Fatalf("expected fallback main, got %s", got)
	}
	if meta.HasHook("pre-commit") {
		t.Fatalf("fresh repository should have no pre-commit hook")
	}
}

func TestOpenMetadataOutsideRepository(t *testing.T) {
	if _, err := OpenMetadata(t.TempDir()); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}
