package prompt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
)

const fooDiff = `diff --git a/foo.py b/foo.py
new file mode 100644
--- /dev/null
+++ b/foo.py
@@ -0,0 +1 @@
+print("hi")
`

func TestBuildCommitGolden(t *testing.T) {
	got, err := Build(domain.KindCommit, domain.DiffContext(domain.SourceStagedDiff, fooDiff))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	want := "You are an expert developer. Write a concise, clear git commit message (imperative mood, ≤ 72 chars in the subject) for the following diff. Start the subject line with a single, relevant, positive emoji.\n\n" +
		"<diff>\n" + strings.TrimSpace(fooDiff) + "\n</diff>"
	if got.Text != want {
		t.Fatalf("prompt mismatch:\nwant %q\ngot  %q", want, got.Text)
	}
	if got.Kind != domain.KindCommit || got.MaxTokens != 256 {
		t.Fatalf("unexpected prompt metadata %+v", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	ctx := domain.DiffContext(domain.SourceStagedDiff, fooDiff)
	first, err := Build(domain.KindReview, ctx)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, _ := Build(domain.KindReview, ctx)
		if again != first {
			t.Fatalf("prompt changed between builds")
		}
	}
}

func TestBuildLog(t *testing.T) {
	entries := []domain.LogEntry{
		{Hash: "abcdef1234", Author: "Ada", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Subject: "Add parser", Body: "Handles nested lists."},
		{Hash: "1234567890", Author: "Lin", Date: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), Subject: "Initial commit"},
	}
	got, err := Build(domain.KindLog, domain.LogContext(entries))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	wantTail := "<log>\nabcdef1 2024-05-01 Ada: Add parser\nHandles nested lists.\n1234567 2024-04-30 Lin: Initial commit\n</log>"
	if !strings.HasSuffix(got.Text, wantTail) {
		t.Fatalf("unexpected log prompt:\n%s", got.Text)
	}
}

func TestBuildBlameIncludesCommitMessage(t *testing.T) {
	entry := domain.BlameEntry{
		File:    "foo.py",
		Line:    1,
		Commit:  "abcdef",
		Raw:     "abcdef 1 1 1\nauthor Ada\n\tprint(\"hi\")\n",
		Message: "Add greeting",
	}
	got, err := Build(domain.KindBlame, domain.BlameContext(entry))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !strings.Contains(got.Text, "<blame>\nabcdef 1 1 1\nauthor Ada\n\tprint(\"hi\")\n\nCommit message:\nAdd greeting\n</blame>") {
		t.Fatalf("unexpected blame prompt:\n%s", got.Text)
	}
}

func TestBuildSubmitAsksForJSON(t *testing.T) {
	got, err := Build(domain.KindSubmit, domain.DiffContext(domain.SourceBranchDiff, fooDiff))
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if !strings.Contains(got.Text, `two keys: "title" and "body"`) || got.MaxTokens != 1024 {
		t.Fatalf("unexpected submit prompt %+v", got)
	}
}

func TestBuildEmptyContext(t *testing.T) {
	tests := []struct {
		name string
		kind domain.CommandKind
		ctx  domain.RepoContext
	}{
		{"empty diff", domain.KindCommit, domain.DiffContext(domain.SourceStagedDiff, "  \n")},
		{"empty log", domain.KindLog, domain.LogContext(nil)},
		{"empty stash", domain.KindStash, domain.DiffContext(domain.SourceUnstagedDiff, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.kind, tt.ctx)
			if !errors.Is(err, domain.ErrEmptyContext) {
				t.Fatalf("expected ErrEmptyContext, got %v", err)
			}
			if got.Text != "" {
				t.Fatalf("no prompt text expected, got %q", got.Text)
			}
		})
	}
}

func TestBuildRejectsMismatchedContext(t *testing.T) {
	if _, err := Build(domain.KindSubmit, domain.DiffContext(domain.SourceStagedDiff, fooDiff)); err == nil {
		t.Fatalf("expected error for submit with staged diff")
	}
	if _, err := Build(domain.KindConfig, domain.DiffContext(domain.SourceStagedDiff, fooDiff)); err == nil {
		t.Fatalf("expected error for non-generating command")
	}
}
