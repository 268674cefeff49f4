package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/infrastructure/git/gittest"
)

func sectionTitles(out *recordingOutput) []string {
	titles := make([]string, len(out.sections))
	for i, s := range out.sections {
		titles[i] = s.title
	}
	return titles
}

func TestLogPrintsCommitsThenSummary(t *testing.T) {
	h := newHarness()
	h.repo.log = []domain.LogEntry{
		{Hash: "0123456789abcdef", Author: "Ada", Date: fixedNow, Subject: "feat: add login"},
		{Hash: "fedcba9876543210", Author: "Lin", Date: fixedNow.Add(-time.Hour), Subject: "fix: handle empty form"},
	}
	h.gen.replies = []string{"Login work landed."}

	if err := h.svc.Log(context.Background(), LogOptions{}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Recent commits", "Summary"}, sectionTitles(h.out)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if want := "0123456 feat: add login\nfedcba9 fix: handle empty form"; h.out.sections[0].body != want {
		t.Fatalf("log body = %q, want %q", h.out.sections[0].body, want)
	}
	if h.out.sections[1].body != "Login work landed." {
		t.Fatalf("summary = %q", h.out.sections[1].body)
	}
	if h.usage.records[0].Outcome != domain.OutcomeShown {
		t.Fatalf("outcome = %s, want shown", h.usage.records[0].Outcome)
	}
}

func TestLogWithoutCommits(t *testing.T) {
	h := newHarness()
	err := h.svc.Log(context.Background(), LogOptions{Count: 5})
	if !errors.Is(err, domain.ErrEmptyContext) {
		t.Fatalf("Log() error = %v, want ErrEmptyContext", err)
	}
	if len(h.gen.prompts) != 0 {
		t.Fatalf("generator called")
	}
}

func TestBlameLineBeyondFileFailsBeforePrompt(t *testing.T) {
	dir := t.TempDir()
	lines := strings.Repeat("print('hi')\n", 100)
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := gittest.NewRunner()

	h := newHarness()
	h.svc.Repo = git.NewRepository(dir, runner)

	err := h.svc.Blame(context.Background(), BlameOptions{File: "main.py", Line: 115})
	if !errors.Is(err, domain.ErrOutOfRange) {
		t.Fatalf("Blame() error = %v, want ErrOutOfRange", err)
	}
	if len(runner.Calls) != 0 {
		t.Fatalf("git invoked: %+v", runner.Calls)
	}
	if len(h.gen.prompts) != 0 || len(h.out.sections) != 0 {
		t.Fatalf("prompt built or output written for an invalid line")
	}
}

func TestBlameExplainsLine(t *testing.T) {
	h := newHarness()
	h.repo.blame = domain.BlameEntry{
		File:    "main.py",
		Line:    3,
		Commit:  "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2",
		Author:  "Ada",
		Summary: "fix: guard empty input",
		Text:    "    if not data:",
		Message: "fix: guard empty input\n\nCrashed on empty uploads.",
		Raw:     "a1b2c3d4 (Ada) if not data:",
	}
	h.gen.replies = []string{"The guard avoids a crash on empty uploads."}

	if err := h.svc.Blame(context.Background(), BlameOptions{File: "main.py", Line: 3}); err != nil {
		t.Fatalf("Blame() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Blame output", "Explanation"}, sectionTitles(h.out)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(h.out.sections[0].body, "a1b2c3d4 (Ada) main.py:3") {
		t.Fatalf("blame body = %q", h.out.sections[0].body)
	}
}

func TestReviewUsesRequestedDiff(t *testing.T) {
	h := newHarness()
	h.repo.unstaged = fooDiff
	h.gen.replies = []string{"Looks fine."}

	if err := h.svc.Review(context.Background(), ReviewOptions{}); !errors.Is(err, domain.ErrEmptyDiff) {
		t.Fatalf("staged Review() error = %v, want ErrEmptyDiff", err)
	}
	if err := h.svc.Review(context.Background(), ReviewOptions{Unstaged: true}); err != nil {
		t.Fatalf("unstaged Review() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Code review"}, sectionTitles(h.out)); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	if got := h.gen.prompts[0].MaxTokens; got != 2048 {
		t.Fatalf("review max tokens = %d, want 2048", got)
	}
}

func TestReviewQueriesOnlyTheRequestedDiff(t *testing.T) {
	t.Run("unstaged", func(t *testing.T) {
		runner := gittest.NewRunner().Expect("diff", git.Result{Stdout: fooDiff})
		h := newHarness()
		h.svc.Repo = git.NewRepository(t.TempDir(), runner)
		h.gen.replies = []string{"Looks fine."}

		if err := h.svc.Review(context.Background(), ReviewOptions{Unstaged: true}); err != nil {
			t.Fatalf("Review() error = %v", err)
		}
		if len(runner.Calls) != 1 {
			t.Fatalf("git calls = %d, want 1", len(runner.Calls))
		}
		if diff := cmp.Diff([]string{"diff"}, runner.Calls[0].Args); diff != "" {
			t.Fatalf("diff args mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("staged failure surfaces", func(t *testing.T) {
		runner := gittest.NewRunner().Expect("diff --cached", git.Result{ExitCode: 128, Stderr: "fatal: not a git repository"})
		h := newHarness()
		h.svc.Repo = git.NewRepository(t.TempDir(), runner)

		err := h.svc.Review(context.Background(), ReviewOptions{})
		var toolErr *domain.ToolError
		if !errors.As(err, &toolErr) || toolErr.ExitCode != 128 {
			t.Fatalf("Review() error = %v, want git's failure", err)
		}
		if len(runner.Calls) != 1 || len(h.gen.prompts) != 0 {
			t.Fatalf("git calls = %d, prompts = %d", len(runner.Calls), len(h.gen.prompts))
		}
	})
}
