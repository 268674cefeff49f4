package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/doeshing/gai-go/internal/application/doctor"
	"github.com/doeshing/gai-go/internal/application/generate"
	"github.com/doeshing/gai-go/internal/application/provider"
	"github.com/doeshing/gai-go/internal/application/workflow"
	"github.com/doeshing/gai-go/internal/infrastructure/ai"
	"github.com/doeshing/gai-go/internal/infrastructure/config"
	"github.com/doeshing/gai-go/internal/infrastructure/git"
	"github.com/doeshing/gai-go/internal/infrastructure/hooks"
	"github.com/doeshing/gai-go/internal/infrastructure/pr"
	"github.com/doeshing/gai-go/internal/infrastructure/usage"
	"github.com/doeshing/gai-go/internal/pkg/logger"
	"github.com/doeshing/gai-go/internal/ports"
)

// Options tunes container construction.
type Options struct {
	Verbose bool
	// Dir is the working directory git runs in; empty means the current one.
	Dir string
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Workflow     *workflow.Service
	Repo         ports.Repository
	ConfigLoader *config.FileLoader
	Logger       ports.Logger

	usage *usage.SQLiteStore
}

// BuildContainer constructs the dependency graph for gai's own commands.
// Passthrough never gets here. Being outside a git repository is not an
// error: the command that needs one reports it.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.NewStd(opts.Verbose)

	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := git.NewDiffFilter(cfg.Context.Exclude)
	if err != nil {
		return nil, fmt.Errorf("context.exclude in %s: %w", cfgLoader.Path(), err)
	}

	dir := opts.Dir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	runner := git.NewExecRunner()
	repo := git.NewRepository(dir, runner, git.WithDiffFilter(filter), git.WithLogger(log))

	var repoInfo ports.RepositoryInfo
	if meta, err := git.OpenMetadata(dir); err == nil {
		repoInfo = meta
	} else {
		log.Debug("repository metadata unavailable", map[string]interface{}{"err": err.Error()})
	}

	credentials := config.NewSecretStore("", "")

	var usageRepo ports.UsageRepository
	usageStore, err := usage.NewSQLiteStore(usage.DefaultPath())
	if err != nil {
		log.Warn("usage ledger disabled", map[string]interface{}{"err": err.Error()})
	} else {
		usageRepo = usageStore
	}

	timeout := time.Duration(cfg.Preferences.TimeoutSeconds) * time.Second
	generator := generate.NewClient(ai.NewFactory(timeout), cfg.Generation, log)

	prCreator := func(context.Context) (ports.PRCreator, error) {
		remoteURL := ""
		if repoInfo != nil {
			if _, url, err := repoInfo.Remote(); err == nil {
				remoteURL = url
			}
		}
		return pr.NewCreator(cfg, remoteURL, runner, dir, os.Getenv)
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Credentials:    credentials,
		RepoInfo:       repoInfo,
		Usage:          usageRepo,
	}

	workflowService := &workflow.Service{
		Config:      cfg,
		Defaults:    config.DefaultConfig(),
		ConfigPath:  cfgLoader.Path(),
		Repo:        repo,
		RepoInfo:    repoInfo,
		Credentials: credentials,
		Selector:    provider.Selector{},
		Generator:   generator,
		Hooks:       hooks.NewPreCommit(runner, dir, cfg.HookCommand()),
		PRCreator:   prCreator,
		Usage:       usageRepo,
		Doctor:      doctorService,
		Logger:      log,
	}

	return &Container{
		Workflow:     workflowService,
		Repo:         repo,
		ConfigLoader: cfgLoader,
		Logger:       log,
		usage:        usageStore,
	}, nil
}

// Close releases the usage database.
func (c *Container) Close() error {
	if c.usage == nil {
		return nil
	}
	return c.usage.Close()
}
