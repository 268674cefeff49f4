// Package git adapts the git command line to the ports.Repository interface.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%an%x1f%aI%x1f%s%x1f%b%x1e"
)

// Repository runs git in a working directory.
type Repository struct {
	dir    string
	runner Runner
	filter *DiffFilter
	logger ports.Logger
}

// Option customises a Repository.
type Option func(*Repository)

// WithDiffFilter drops excluded files from every diff.
func WithDiffFilter(filter *DiffFilter) Option {
	return func(r *Repository) {
		r.filter = filter
	}
}

// WithLogger attaches a logger.
func WithLogger(logger ports.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository builds a repository adapter. An empty dir means the current directory.
func NewRepository(dir string, runner Runner, opts ...Option) *Repository {
	r := &Repository{dir: dir, runner: runner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) git(ctx context.Context, args ...string) (string, error) {
	res, err := r.runner.Run(ctx, Command{Dir: r.dir, Name: domain.GitBinary, Args: args})
	if r.logger != nil {
		r.logger.Debug("git", map[string]interface{}{"args": strings.Join(args, " "), "exit": res.ExitCode})
	}
	return res.Stdout, err
}

// StagedDiff returns `git diff --cached`.
func (r *Repository) StagedDiff(ctx context.Context, extra ...string) (string, error) {
	return r.diff(ctx, append([]string{"diff", "--cached"}, extra...)...)
}

// UnstagedDiff returns `git diff` of the working tree.
func (r *Repository) UnstagedDiff(ctx context.Context, extra ...string) (string, error) {
	return r.diff(ctx, append([]string{"diff"}, extra...)...)
}

// BranchDiff returns the changes on HEAD since it forked from base.
func (r *Repository) BranchDiff(ctx context.Context, base string) (string, error) {
	out, err := r.git(ctx, "merge-base", "HEAD", base)
	if err != nil {
		return "", err
	}
	mergeBase := strings.TrimSpace(out)
	if mergeBase == "" {
		return "", fmt.Errorf("no merge base between HEAD and %s", base)
	}
	return r.diff(ctx, "diff", mergeBase+"..HEAD")
}

func (r *Repository) diff(ctx context.Context, args ...string) (string, error) {
	out, err := r.git(ctx, args...)
	if err != nil {
		return "", err
	}
	if r.filter != nil {
		out = r.filter.Apply(out)
	}
	if strings.TrimSpace(out) == "" {
		return "", domain.ErrEmptyDiff
	}
	return out, nil
}

// RecentLog returns up to count commits reachable from HEAD, newest first.
func (r *Repository) RecentLog(ctx context.Context, count int) ([]domain.LogEntry, error) {
	if count <= 0 {
		count = domain.DefaultLogCount
	}
	out, err := r.git(ctx, "log", "-n", strconv.Itoa(count), logFormat)
	if err != nil {
		var toolErr *domain.ToolError
		if errors.As(err, &toolErr) && strings.Contains(toolErr.Stderr, "does not have any commits") {
			return nil, domain.ErrEmptyContext
		}
		return nil, err
	}
	entries := parseLog(out)
	if len(entries) == 0 {
		return nil, domain.ErrEmptyContext
	}
	return entries, nil
}

func parseLog(out string) []domain.LogEntry {
	var entries []domain.LogEntry
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 5)
		if len(fields) < 4 {
			continue
		}
		entry := domain.LogEntry{
			Hash:    fields[0],
			Author:  fields[1],
			Subject: fields[3],
		}
		if ts, err := time.Parse(time.RFC3339, fields[2]); err == nil {
			entry.Date = ts
		}
		if len(fields) == 5 {
			entry.Body = strings.TrimSpace(fields[4])
		}
		entries = append(entries, entry)
	}
	return entries
}

// Blame describes who last changed line (1-based) of file, with the full
// message of that commit.
func (r *Repository) Blame(ctx context.Context, file string, line int) (domain.BlameEntry, error) {
	if line < 1 {
		return domain.BlameEntry{}, fmt.Errorf("%w: %s:%d", domain.ErrOutOfRange, file, line)
	}
	path := file
	if !filepath.IsAbs(path) && r.dir != "" {
		path = filepath.Join(r.dir, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.BlameEntry{}, fmt.Errorf("%w: %s", domain.ErrNotFound, file)
		}
		return domain.BlameEntry{}, fmt.Errorf("read %s: %w", file, err)
	}
	if lines := countLines(data); line > lines {
		return domain.BlameEntry{}, fmt.Errorf("%w: %s has %d lines, asked for %d", domain.ErrOutOfRange, file, lines, line)
	}

	out, err := r.git(ctx, "blame", "--porcelain", "-L", fmt.Sprintf("%d,%d", line, line), "--", file)
	if err != nil {
		return domain.BlameEntry{}, err
	}
	entry, err := parsePorcelain(out)
	if err != nil {
		return domain.BlameEntry{}, err
	}
	entry.File = file
	entry.Line = line

	if !entry.Uncommitted() {
		msg, err := r.git(ctx, "log", "-1", "--format=%B", entry.Commit)
		if err != nil {
			return domain.BlameEntry{}, err
		}
		entry.Message = strings.TrimSpace(msg)
	}
	return entry, nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

func parsePorcelain(out string) (domain.BlameEntry, error) {
	var entry domain.BlameEntry
	entry.Raw = out
	scanner := bufio.NewScanner(strings.NewReader(out))
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				return domain.BlameEntry{}, fmt.Errorf("unexpected blame output")
			}
			entry.Commit = fields[0]
			first = false
			continue
		}
		if text, ok := strings.CutPrefix(line, "\t"); ok {
			entry.Text = text
			break
		}
		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			entry.Author = value
		case "author-time":
			if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
				entry.AuthorTime = time.Unix(secs, 0).UTC()
			}
		case "summary":
			entry.Summary = value
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.BlameEntry{}, err
	}
	if entry.Commit == "" {
		return domain.BlameEntry{}, fmt.Errorf("unexpected blame output")
	}
	return entry, nil
}

// Commit creates a commit with message fed on stdin.
func (r *Repository) Commit(ctx context.Context, message string, opts ports.CommitOptions) error {
	args := []string{"commit", "-F", "-"}
	var env []string
	if opts.Date != "" {
		args = append(args, "--date", opts.Date)
		env = append(env, "GIT_AUTHOR_DATE="+opts.Date, "GIT_COMMITTER_DATE="+opts.Date)
	}
	args = append(args, opts.Extra...)
	_, err := r.runner.Run(ctx, Command{
		Dir:   r.dir,
		Name:  domain.GitBinary,
		Args:  args,
		Env:   env,
		Stdin: strings.NewReader(message),
	})
	return err
}

// Stash saves the working tree changes under message.
func (r *Repository) Stash(ctx context.Context, message string, extra ...string) error {
	args := append([]string{"stash", "push", "-m", message}, extra...)
	_, err := r.git(ctx, args...)
	return err
}

// CreateBranch creates name from HEAD without switching to it.
func (r *Repository) CreateBranch(ctx context.Context, name string) error {
	_, err := r.git(ctx, "branch", name)
	return err
}

// BranchPrefix reads the configured prefix. Exit status 1 from
// `git config --get` means the key is absent.
func (r *Repository) BranchPrefix(ctx context.Context) (domain.BranchPrefix, error) {
	out, err := r.git(ctx, "config", "--get", domain.BranchPrefixConfigKey)
	if err != nil {
		var toolErr *domain.ToolError
		if errors.As(err, &toolErr) && toolErr.ExitCode == 1 {
			return domain.BranchPrefix{}, nil
		}
		return domain.BranchPrefix{}, err
	}
	return domain.BranchPrefix{Value: strings.TrimSpace(out), Set: true}, nil
}

// SetBranchPrefix stores the prefix in the repository config.
func (r *Repository) SetBranchPrefix(ctx context.Context, prefix string) error {
	_, err := r.git(ctx, "config", domain.BranchPrefixConfigKey, strings.TrimSpace(prefix))
	return err
}

// UnsetBranchPrefix removes the prefix. Removing an absent key is not an error.
func (r *Repository) UnsetBranchPrefix(ctx context.Context) error {
	_, err := r.git(ctx, "config", "--unset", domain.BranchPrefixConfigKey)
	var toolErr *domain.ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode == 5 {
		return nil
	}
	return err
}

// Passthrough runs git attached to the terminal and reports its exit code.
// A non-zero exit is not an error; failing to start git is.
func (r *Repository) Passthrough(ctx context.Context, args []string) (int, error) {
	res, err := r.runner.Run(ctx, Command{Dir: r.dir, Name: domain.GitBinary, Args: args, Interactive: true})
	if err == nil {
		return 0, nil
	}
	var toolErr *domain.ToolError
	if errors.As(err, &toolErr) && toolErr.ExitCode > 0 && toolErr.ExitCode != 127 {
		return toolErr.ExitCode, nil
	}
	if res.ExitCode == 0 {
		res.ExitCode = 1
	}
	return res.ExitCode, err
}

var _ ports.Repository = (*Repository)(nil)
