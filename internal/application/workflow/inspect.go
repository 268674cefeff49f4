package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
)

// LogOptions are the flags of `gai log`.
type LogOptions struct {
	Count int
}

// Log prints the recent commits and a generated summary of them.
func (s *Service) Log(ctx context.Context, opts LogOptions) error {
	count := opts.Count
	if count <= 0 {
		count = s.Config.Context.LogCount
	}
	entries, err := s.Repo.RecentLog(ctx, count)
	if err != nil {
		return err
	}
	s.Output.Section("Recent commits", formatLog(entries))

	g, err := s.generate(ctx, domain.KindLog, domain.LogContext(entries))
	if err != nil {
		return err
	}
	s.record(g, 1, domain.OutcomeShown)
	s.Output.Section("Summary", g.artifact.Text)
	return nil
}

func formatLog(entries []domain.LogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s", e.ShortHash(), e.Subject))
	}
	return strings.Join(lines, "\n")
}

// BlameOptions are the arguments of `gai blame`.
type BlameOptions struct {
	File string
	Line int
}

// Blame explains why a line was last changed. The file and line are
// validated before any prompt is built.
func (s *Service) Blame(ctx context.Context, opts BlameOptions) error {
	entry, err := s.Repo.Blame(ctx, opts.File, opts.Line)
	if err != nil {
		return err
	}
	s.Output.Section("Blame output", formatBlame(entry))

	g, err := s.generate(ctx, domain.KindBlame, domain.BlameContext(entry))
	if err != nil {
		return err
	}
	s.record(g, 1, domain.OutcomeShown)
	s.Output.Section("Explanation", g.artifact.Text)
	return nil
}

func formatBlame(e domain.BlameEntry) string {
	if e.Uncommitted() {
		return fmt.Sprintf("%s:%d (not committed yet)\n%s", e.File, e.Line, e.Text)
	}
	commit := e.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	date := ""
	if !e.AuthorTime.IsZero() {
		date = " " + e.AuthorTime.Format("2006-01-02")
	}
	return fmt.Sprintf("%s (%s%s) %s:%d %s\n%s", commit, e.Author, date, e.File, e.Line, e.Text, e.Summary)
}

// ReviewOptions are the flags of `gai review`.
type ReviewOptions struct {
	Unstaged bool
}

// Review prints a generated code review of the staged (or unstaged) changes.
func (s *Service) Review(ctx context.Context, opts ReviewOptions) error {
	var (
		source domain.ContextSource
		diff   string
		err    error
	)
	if opts.Unstaged {
		source = domain.SourceUnstagedDiff
		diff, err = s.Repo.UnstagedDiff(ctx)
	} else {
		source = domain.SourceStagedDiff
		diff, err = s.Repo.StagedDiff(ctx)
	}
	if err != nil {
		return err
	}

	g, err := s.generate(ctx, domain.KindReview, domain.DiffContext(source, diff))
	if err != nil {
		return err
	}
	s.record(g, 1, domain.OutcomeShown)
	s.Output.Section("Code review", g.artifact.Text)
	return nil
}
