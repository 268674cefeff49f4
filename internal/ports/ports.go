// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The workflow engine only talks to git, the generation
// backends, the terminal and the settings files through these interfaces, which
// keeps every use case testable against in-memory fakes.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Repository, Provider, Prompter)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.gai/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CommitOptions tunes a commit created from a confirmed message.
type CommitOptions struct {
	// Date overrides both author and committer dates when non-empty.
	Date  string
	Extra []string
}

// Repository is the narrow capability interface over the version-control tool.
// Read queries never mutate; mutating helpers run only after confirmation.
type Repository interface {
	StagedDiff(ctx context.Context, extra ...string) (string, error)
	UnstagedDiff(ctx context.Context, extra ...string) (string, error)
	BranchDiff(ctx context.Context, base string) (string, error)
	RecentLog(ctx context.Context, count int) ([]domain.LogEntry, error)
	Blame(ctx context.Context, file string, line int) (domain.BlameEntry, error)

	Commit(ctx context.Context, message string, opts CommitOptions) error
	Stash(ctx context.Context, message string, extra ...string) error
	CreateBranch(ctx context.Context, name string) error

	BranchPrefix(ctx context.Context) (domain.BranchPrefix, error)
	SetBranchPrefix(ctx context.Context, prefix string) error
	UnsetBranchPrefix(ctx context.Context) error

	// Passthrough runs git with args on the inherited terminal and returns its exit code.
	Passthrough(ctx context.Context, args []string) (int, error)
}

// RepositoryInfo exposes read-only repository metadata.
type RepositoryInfo interface {
	Root() string
	CurrentBranch() (string, error)
	DefaultBranch() string
	Remote() (name string, url string, err error)
	HasHook(name string) bool
}

// ProviderFactory builds a generation backend for the selected provider.
type ProviderFactory interface {
	ForChoice(domain.ProviderChoice) (Provider, error)
}

// Provider defines the text generation capability of one backend.
type Provider interface {
	Name() domain.ProviderKind
	Generate(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest carries a prompt and its generation parameters.
type ProviderRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// ProviderResponse holds the raw text returned by a backend.
type ProviderResponse struct {
	Text string
}

// Generator produces an artifact for a prompt with the chosen backend.
type Generator interface {
	Generate(context.Context, domain.Prompt, domain.ProviderChoice) (domain.GeneratedArtifact, error)
}

// CredentialStore loads provider keys and persists interactively captured ones.
type CredentialStore interface {
	Load(context.Context) (domain.Credentials, error)
	Save(ctx context.Context, provider domain.ProviderKind, key string) error
	Path() string
}

// Prompter is the interactive surface of the confirmation loop.
type Prompter interface {
	// Interactive reports whether a human can answer questions.
	Interactive() bool
	Present(artifact domain.GeneratedArtifact, question string) (domain.Choice, error)
	Edit(text string) (string, error)
	AskCredential(options []domain.ProviderKind) (domain.ProviderKind, string, error)
}

// PROptions describes a pull request to open.
type PROptions struct {
	Title string
	Body  string
	Base  string
	Head  string
	Draft bool
	// Extra is appended to `gh pr create`; the API backends reject it.
	Extra []string
}

// PRCreator opens pull requests on the hosting service.
type PRCreator interface {
	Name() string
	Create(ctx context.Context, opts PROptions) (url string, err error)
}

// HookRunner installs and runs configured pre-commit hooks.
type HookRunner interface {
	Install(ctx context.Context) error
	RunAll(ctx context.Context) error
}

// UsageRepository keeps generation metadata.
type UsageRepository interface {
	Save(domain.UsageRecord) error
	Recent(limit int) ([]domain.UsageRecord, error)
	Since(time.Time) (domain.UsageSummary, error)
	Clear() error
	Path() string
}

// Output is where workflow handlers write user-facing text.
type Output interface {
	Info(format string, args ...any)
	Section(title, body string)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Progress shows an activity indicator until the returned stop is called.
	Progress(message string) (stop func())
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
