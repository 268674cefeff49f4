package pr

import (
	"errors"
	"testing"
)

func TestParseRemote(t *testing.T) {
	tests := []struct {
		url  string
		want Remote
	}{
		{"git@github.com:doeshing/gai.git", Remote{Host: HostGitHub, Hostname: "github.com", Owner: "doeshing", Repo: "gai"}},
		{"https://github.com/doeshing/gai", Remote{Host: HostGitHub, Hostname: "github.com", Owner: "doeshing", Repo: "gai"}},
		{"ssh://git@gitlab.example.com:2222/group/sub/app.git", Remote{Host: HostGitLab, Hostname: "gitlab.example.com", Owner: "group/sub", Repo: "app"}},
		{"https://git.internal/team/tool.git", Remote{Hostname: "git.internal", Owner: "team", Repo: "tool"}},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ParseRemote(tt.url)
			if err != nil {
				t.Fatalf("ParseRemote error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParseRemoteInvalid(t *testing.T) {
	for _, url := range []string{"", "not a url", "https://github.com/onlyowner"} {
		if _, err := ParseRemote(url); err == nil {
			t.Errorf("expected error for %q", url)
		}
	}
}

func TestDetectHostUnknown(t *testing.T) {
	if _, err := DetectHost("https://bitbucket.org/a/b"); !errors.Is(err, ErrUnknownHost) {
		t.Fatalf("expected ErrUnknownHost, got %v", err)
	}
}
