package domain

import (
	"strings"
	"time"
)

// ContextSource identifies which repository query produced a RepoContext.
type ContextSource string

const (
	SourceStagedDiff   ContextSource = "staged-diff"
	SourceUnstagedDiff ContextSource = "unstaged-diff"
	SourceBranchDiff   ContextSource = "branch-diff"
	SourceLog          ContextSource = "log"
	SourceBlame        ContextSource = "blame"
)

// LogEntry is one commit from the recent history.
type LogEntry struct {
	Hash    string
	Author  string
	Date    time.Time
	Subject string
	Body    string
}

// ShortHash returns the abbreviated commit id.
func (e LogEntry) ShortHash() string {
	if len(e.Hash) > 7 {
		return e.Hash[:7]
	}
	return e.Hash
}

// BlameEntry describes the last change to a single line.
type BlameEntry struct {
	File       string
	Line       int
	Commit     string
	Author     string
	AuthorTime time.Time
	Summary    string
	Text       string
	// Message is the full message of Commit, empty for uncommitted lines.
	Message string
	Raw     string
}

// Uncommitted reports whether the line has not been committed yet.
func (b BlameEntry) Uncommitted() bool {
	return strings.Trim(b.Commit, "0") == ""
}

// RepoContext holds exactly one kind of repository text used to build a prompt.
type RepoContext struct {
	Source ContextSource
	Diff   string
	Log    []LogEntry
	Blame  *BlameEntry
}

// DiffContext wraps diff text from the given source.
func DiffContext(source ContextSource, diff string) RepoContext {
	return RepoContext{Source: source, Diff: diff}
}

// LogContext wraps recent log entries.
func LogContext(entries []LogEntry) RepoContext {
	return RepoContext{Source: SourceLog, Log: entries}
}

// BlameContext wraps a blame entry.
func BlameContext(entry BlameEntry) RepoContext {
	return RepoContext{Source: SourceBlame, Blame: &entry}
}

// IsEmpty reports whether there is nothing to summarize.
func (c RepoContext) IsEmpty() bool {
	switch c.Source {
	case SourceStagedDiff, SourceUnstagedDiff, SourceBranchDiff:
		return strings.TrimSpace(c.Diff) == ""
	case SourceLog:
		return len(c.Log) == 0
	case SourceBlame:
		return c.Blame == nil || strings.TrimSpace(c.Blame.Raw) == ""
	default:
		return true
	}
}
