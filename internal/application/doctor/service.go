package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/doeshing/gai-go/internal/application/config"
	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Credentials    ports.CredentialStore
	RepoInfo       ports.RepositoryInfo
	Usage          ports.UsageRepository
	// LookPath finds collaborator binaries; nil means exec.LookPath.
	LookPath func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := config.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.binaryCheck("Git", domain.GitBinary, true))

	if s.RepoInfo != nil {
		branch, err := s.RepoInfo.CurrentBranch()
		if err != nil {
			checks = append(checks, warn("Repository", err.Error()))
		} else {
			checks = append(checks, ok("Repository", fmt.Sprintf("%s on %s (default %s)", s.RepoInfo.Root(), branch, s.RepoInfo.DefaultBranch())))
		}
		if s.RepoInfo.HasHook("pre-commit") {
			checks = append(checks, ok("Git hooks", "pre-commit hook installed"))
		} else {
			checks = append(checks, warn("Git hooks", "pre-commit hook not installed; `gai commit` installs it"))
		}
	} else {
		checks = append(checks, warn("Repository", "not inside a git repository"))
	}

	checks = append(checks, s.credentialCheck(ctx))
	checks = append(checks, s.binaryCheck("Hook runner", cfg.HookCommand(), false))
	if !cfg.UsesPRAPI() {
		checks = append(checks, s.binaryCheck("GitHub CLI", domain.GHBinary, false))
	}

	if s.Usage != nil {
		if _, err := s.Usage.Recent(1); err != nil {
			checks = append(checks, warn("Usage ledger", err.Error()))
		} else {
			checks = append(checks, ok("Usage ledger", s.Usage.Path()))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) credentialCheck(ctx context.Context) domain.HealthCheck {
	if s.Credentials == nil {
		return warn("API keys", "credential store not initialized")
	}
	creds, err := s.Credentials.Load(ctx)
	if err != nil {
		return fail("API keys", err.Error())
	}
	present := creds.Present()
	if len(present) == 0 {
		var names []string
		for _, kind := range domain.ProviderPriority {
			names = append(names, kind.EnvVars()[0])
		}
		return fail("API keys", "none found; set one of "+strings.Join(names, ", "))
	}
	var names []string
	for _, kind := range present {
		names = append(names, string(kind))
	}
	return ok("API keys", "found for "+strings.Join(names, ", "))
}

func (s *Service) binaryCheck(name, binary string, required bool) domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(binary)
	if err == nil {
		return ok(name, path)
	}
	if required {
		return fail(name, binary+" not found in PATH")
	}
	return warn(name, binary+" not found in PATH")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
