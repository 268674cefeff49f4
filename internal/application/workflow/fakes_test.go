package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/gai-go/internal/application/provider"
	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

type commitCall struct {
	message string
	opts    ports.CommitOptions
}

type fakeRepo struct {
	staged, unstaged string
	branchDiffs      map[string]string
	log              []domain.LogEntry
	blame            domain.BlameEntry
	blameErr         error
	prefix           domain.BranchPrefix

	commits      []commitCall
	stashes      []string
	branchBases  []string
	branches     []string
	passthroughs [][]string
}

func (r *fakeRepo) StagedDiff(context.Context, ...string) (string, error) {
	if r.staged == "" {
		return "", domain.ErrEmptyDiff
	}
	return r.staged, nil
}

func (r *fakeRepo) UnstagedDiff(context.Context, ...string) (string, error) {
	if r.unstaged == "" {
		return "", domain.ErrEmptyDiff
	}
	return r.unstaged, nil
}

func (r *fakeRepo) BranchDiff(_ context.Context, base string) (string, error) {
	r.branchBases = append(r.branchBases, base)
	diff, ok := r.branchDiffs[base]
	if !ok {
		return "", &domain.ToolError{Tool: "git", Args: []string{"merge-base", "HEAD", base}, ExitCode: 128, Stderr: "fatal: Not a valid object name " + base}
	}
	if diff == "" {
		return "", domain.ErrEmptyDiff
	}
	return diff, nil
}

func (r *fakeRepo) RecentLog(context.Context, int) ([]domain.LogEntry, error) {
	if len(r.log) == 0 {
		return nil, domain.ErrEmptyContext
	}
	return r.log, nil
}

func (r *fakeRepo) Blame(context.Context, string, int) (domain.BlameEntry, error) {
	return r.blame, r.blameErr
}

func (r *fakeRepo) Commit(_ context.Context, message string, opts ports.CommitOptions) error {
	r.commits = append(r.commits, commitCall{message: message, opts: opts})
	return nil
}

func (r *fakeRepo) Stash(_ context.Context, message string, _ ...string) error {
	r.stashes = append(r.stashes, message)
	return nil
}

func (r *fakeRepo) CreateBranch(_ context.Context, name string) error {
	r.branches = append(r.branches, name)
	return nil
}

func (r *fakeRepo) BranchPrefix(context.Context) (domain.BranchPrefix, error) {
	return r.prefix, nil
}

func (r *fakeRepo) SetBranchPrefix(_ context.Context, prefix string) error {
	r.prefix = domain.BranchPrefix{Value: prefix, Set: true}
	return nil
}

func (r *fakeRepo) UnsetBranchPrefix(context.Context) error {
	r.prefix = domain.BranchPrefix{}
	return nil
}

func (r *fakeRepo) Passthrough(_ context.Context, args []string) (int, error) {
	r.passthroughs = append(r.passthroughs, args)
	return 0, nil
}

type fakeRepoInfo struct {
	branch  string
	remote  string
	hooked  bool
	defBase string
}

func (i fakeRepoInfo) Root() string { return "/repo" }

func (i fakeRepoInfo) CurrentBranch() (string, error) {
	if i.branch == "" {
		return "", errors.New("HEAD is detached")
	}
	return i.branch, nil
}

func (i fakeRepoInfo) DefaultBranch() string { return i.defBase }

func (i fakeRepoInfo) Remote() (string, string, error) {
	if i.remote == "" {
		return "", "", errors.New("no remotes")
	}
	return i.remote, "git@github.com:acme/widgets.git", nil
}

func (i fakeRepoInfo) HasHook(string) bool { return i.hooked }

type memCredentials struct {
	creds domain.Credentials
	saved []domain.ProviderKind
}

func (c *memCredentials) Load(context.Context) (domain.Credentials, error) {
	out := domain.Credentials{}
	for k, v := range c.creds {
		out[k] = v
	}
	return out, nil
}

func (c *memCredentials) Save(_ context.Context, kind domain.ProviderKind, key string) error {
	if c.creds == nil {
		c.creds = domain.Credentials{}
	}
	c.creds[kind] = key
	c.saved = append(c.saved, kind)
	return nil
}

func (c *memCredentials) Path() string { return "/home/me/.gai/credentials" }

type fakeGenerator struct {
	replies []string
	err     error
	prompts []domain.Prompt
	choices []domain.ProviderChoice
}

func (g *fakeGenerator) Generate(_ context.Context, p domain.Prompt, choice domain.ProviderChoice) (domain.GeneratedArtifact, error) {
	g.prompts = append(g.prompts, p)
	g.choices = append(g.choices, choice)
	if g.err != nil {
		return domain.GeneratedArtifact{}, g.err
	}
	if len(g.replies) == 0 {
		return domain.GeneratedArtifact{}, fmt.Errorf("no scripted reply")
	}
	text := g.replies[0]
	if len(g.replies) > 1 {
		g.replies = g.replies[1:]
	}
	return domain.GeneratedArtifact{Kind: p.Kind, Text: text, Provider: choice.Provider, Model: choice.Model, Attempts: 1}, nil
}

type fakePrompter struct {
	interactive bool
	choices     []domain.Choice
	edited      string
	credKind    domain.ProviderKind
	credKey     string
	presented   []string
	asked       int
}

func (p *fakePrompter) Interactive() bool { return p.interactive }

func (p *fakePrompter) Present(a domain.GeneratedArtifact, _ string) (domain.Choice, error) {
	p.presented = append(p.presented, a.Text)
	if len(p.choices) == 0 {
		return domain.ChoiceAccept, nil
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func (p *fakePrompter) Edit(string) (string, error) { return p.edited, nil }

func (p *fakePrompter) AskCredential([]domain.ProviderKind) (domain.ProviderKind, string, error) {
	p.asked++
	return p.credKind, p.credKey, nil
}

type section struct{ title, body string }

type recordingOutput struct {
	sections []section
	success  []string
	warnings []string
	info     []string
}

func (o *recordingOutput) Info(format string, args ...any) {
	o.info = append(o.info, fmt.Sprintf(format, args...))
}

func (o *recordingOutput) Section(title, body string) {
	o.sections = append(o.sections, section{title, body})
}

func (o *recordingOutput) Success(format string, args ...any) {
	o.success = append(o.success, fmt.Sprintf(format, args...))
}

func (o *recordingOutput) Warn(format string, args ...any) {
	o.warnings = append(o.warnings, fmt.Sprintf(format, args...))
}

func (o *recordingOutput) Progress(string) func() { return func() {} }

type fakeHooks struct {
	installs, runs int
	runErr         error
}

func (h *fakeHooks) Install(context.Context) error {
	h.installs++
	return nil
}

func (h *fakeHooks) RunAll(context.Context) error {
	h.runs++
	return h.runErr
}

type fakeCreator struct {
	created []ports.PROptions
}

func (c *fakeCreator) Name() string { return "fake" }

func (c *fakeCreator) Create(_ context.Context, opts ports.PROptions) (string, error) {
	c.created = append(c.created, opts)
	return "https://github.com/acme/widgets/pull/7", nil
}

type memUsage struct {
	records []domain.UsageRecord
	cleared bool
}

func (u *memUsage) Save(r domain.UsageRecord) error {
	u.records = append(u.records, r)
	return nil
}

func (u *memUsage) Recent(limit int) ([]domain.UsageRecord, error) {
	if limit > len(u.records) {
		limit = len(u.records)
	}
	return u.records[len(u.records)-limit:], nil
}

func (u *memUsage) Since(time.Time) (domain.UsageSummary, error) {
	s := domain.UsageSummary{Total: len(u.records), ByKind: map[domain.CommandKind]int{}}
	for i, r := range u.records {
		s.ByKind[r.Kind]++
		if r.Outcome == domain.OutcomeAccepted || r.Outcome == domain.OutcomeEdited {
			s.Accepted++
		}
		s.Last = &u.records[i]
	}
	return s, nil
}

func (u *memUsage) Clear() error {
	u.records = nil
	u.cleared = true
	return nil
}

func (u *memUsage) Path() string { return "/home/me/.gai/usage.db" }

type harness struct {
	svc     *Service
	repo    *fakeRepo
	gen     *fakeGenerator
	prompt  *fakePrompter
	out     *recordingOutput
	creds   *memCredentials
	hooks   *fakeHooks
	creator *fakeCreator
	usage   *memUsage
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		repo:    &fakeRepo{},
		gen:     &fakeGenerator{},
		prompt:  &fakePrompter{interactive: true},
		out:     &recordingOutput{},
		creds:   &memCredentials{creds: domain.Credentials{domain.ProviderOpenAI: "sk-test"}},
		hooks:   &fakeHooks{},
		creator: &fakeCreator{},
		usage:   &memUsage{},
	}
	h.svc = &Service{
		Config:      domain.Config{Context: domain.ContextSettings{LogCount: 10}},
		ConfigPath:  "/home/me/.gai/config.yaml",
		Repo:        h.repo,
		RepoInfo:    fakeRepoInfo{branch: "feature/login", remote: "origin", hooked: true, defBase: "main"},
		Credentials: h.creds,
		Selector:    provider.Selector{Getenv: func(string) string { return "" }},
		Generator:   h.gen,
		Prompter:    h.prompt,
		Output:      h.out,
		Hooks:       h.hooks,
		PRCreator: func(context.Context) (ports.PRCreator, error) {
			return h.creator, nil
		},
		Usage:    h.usage,
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Now:      func() time.Time { return fixedNow },
	}
	return h
}
