// Package workflow implements the augmented commands. Each handler extracts
// repository context, generates text, confirms it with the user and only
// then performs the mutating action.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/doeshing/gai-go/internal/application/confirm"
	"github.com/doeshing/gai-go/internal/application/doctor"
	"github.com/doeshing/gai-go/internal/application/prompt"
	"github.com/doeshing/gai-go/internal/application/provider"
	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/pkg/logger"
	"github.com/doeshing/gai-go/internal/ports"
)

// PRCreatorFactory builds the pull request backend on demand.
type PRCreatorFactory func(context.Context) (ports.PRCreator, error)

// Service wires the collaborators shared by every command.
type Service struct {
	Config      domain.Config
	Defaults    domain.Config
	ConfigPath  string
	Repo        ports.Repository
	RepoInfo    ports.RepositoryInfo
	Credentials ports.CredentialStore
	Selector    provider.Selector
	Generator   ports.Generator
	Prompter    ports.Prompter
	Output      ports.Output
	Hooks       ports.HookRunner
	PRCreator   PRCreatorFactory
	Usage       ports.UsageRepository
	Doctor      *doctor.Service
	Logger      ports.Logger

	// LookPath and Now are seams for tests; nil uses the real ones.
	LookPath func(string) (string, error)
	Now      func() time.Time
}

// generation is the state of one generate-and-confirm run.
type generation struct {
	kind     domain.CommandKind
	prompt   domain.Prompt
	choice   domain.ProviderChoice
	artifact domain.GeneratedArtifact
	started  time.Time
	attempts int
}

// generate builds the prompt and produces the first artifact. Prompt
// building happens before provider selection so empty context never
// reaches a backend or the credential prompt.
func (s *Service) generate(ctx context.Context, kind domain.CommandKind, repoCtx domain.RepoContext) (*generation, error) {
	p, err := prompt.Build(kind, repoCtx)
	if err != nil {
		return nil, err
	}
	choice, err := s.choose(ctx)
	if err != nil {
		return nil, err
	}
	g := &generation{kind: kind, prompt: p, choice: choice, started: s.now()}
	artifact, err := s.call(ctx, g)
	if err != nil {
		s.record(g, 0, domain.OutcomeFailed)
		return nil, err
	}
	g.artifact = artifact
	return g, nil
}

func (s *Service) call(ctx context.Context, g *generation) (domain.GeneratedArtifact, error) {
	stop := s.Output.Progress(fmt.Sprintf("Asking %s...", g.choice))
	artifact, err := s.Generator.Generate(ctx, g.prompt, g.choice)
	stop()
	g.attempts += artifact.Attempts
	if err != nil {
		return domain.GeneratedArtifact{}, err
	}
	return artifact, nil
}

// confirm runs the loop for g. transform post-processes each regenerated
// artifact the same way the caller processed the first one.
func (s *Service) confirm(ctx context.Context, g *generation, question string, bypass bool, transform func(domain.GeneratedArtifact) (domain.GeneratedArtifact, error)) (confirm.Result, error) {
	loop := confirm.Loop{
		Prompter: s.Prompter,
		Regenerate: func(ctx context.Context) (domain.GeneratedArtifact, error) {
			artifact, err := s.call(ctx, g)
			if err != nil {
				return domain.GeneratedArtifact{}, err
			}
			if transform != nil {
				return transform(artifact)
			}
			return artifact, nil
		},
	}
	res, err := loop.Run(ctx, g.artifact, question, bypass)
	if err != nil && !errors.Is(err, domain.ErrRejected) {
		s.record(g, res.Generations, domain.OutcomeFailed)
		return res, err
	}
	s.record(g, res.Generations, res.Outcome())
	return res, err
}

// choose selects a provider, asking for a key once when none is configured.
func (s *Service) choose(ctx context.Context) (domain.ProviderChoice, error) {
	creds, err := s.Credentials.Load(ctx)
	if err != nil {
		return domain.ProviderChoice{}, err
	}
	choice, err := s.Selector.Select(creds, s.Config.Preferences)
	if err == nil {
		s.warnIgnoredPin(choice)
		return choice, nil
	}
	if !errors.Is(err, domain.ErrNoCredentials) {
		return domain.ProviderChoice{}, err
	}
	if !s.Prompter.Interactive() {
		return domain.ProviderChoice{}, fmt.Errorf("%w: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OLLAMA_HOST", err)
	}

	kind, key, err := s.Prompter.AskCredential(domain.ProviderPriority)
	if err != nil {
		return domain.ProviderChoice{}, err
	}
	if err := s.Credentials.Save(ctx, kind, key); err != nil {
		return domain.ProviderChoice{}, fmt.Errorf("save credential: %w", err)
	}
	s.Output.Success("Saved %s key to %s", kind, s.Credentials.Path())

	creds, err = s.Credentials.Load(ctx)
	if err != nil {
		return domain.ProviderChoice{}, err
	}
	return s.Selector.Select(creds, s.Config.Preferences)
}

func (s *Service) warnIgnoredPin(choice domain.ProviderChoice) {
	pinned, ok := domain.ParseProviderKind(s.Config.Preferences.Provider)
	if !ok || pinned == choice.Provider {
		return
	}
	s.log().Warn("configured provider has no credential, using another", map[string]interface{}{
		"configured": string(pinned),
		"using":      string(choice.Provider),
	})
}

func (s *Service) record(g *generation, generations int, outcome domain.UsageOutcome) {
	if s.Usage == nil {
		return
	}
	if generations == 0 {
		generations = 1
	}
	rec := domain.UsageRecord{
		Timestamp:   g.started,
		Kind:        g.kind,
		Provider:    g.choice.Provider,
		Model:       g.choice.Model,
		Attempts:    g.attempts,
		Generations: generations,
		PromptBytes: len(g.prompt.Text),
		DurationMS:  s.now().Sub(g.started).Milliseconds(),
		Outcome:     outcome,
	}
	if err := s.Usage.Save(rec); err != nil {
		s.log().Debug("usage not recorded", map[string]interface{}{"err": err.Error()})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) lookPath(name string) (string, error) {
	if s.LookPath != nil {
		return s.LookPath(name)
	}
	return exec.LookPath(name)
}

func (s *Service) log() ports.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logger.Nop{}
}
