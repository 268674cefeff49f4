package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/doeshing/gai-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validatePreferences(cfg.Preferences); err != nil {
		return err
	}
	if err := validateGeneration(cfg.Generation); err != nil {
		return err
	}
	if err := validateContext(cfg.Context); err != nil {
		return err
	}
	return validatePullRequest(cfg.PullRequest)
}

func validatePreferences(prefs domain.Preferences) error {
	if prefs.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout must be >= 0")
	}
	if strings.TrimSpace(prefs.Provider) == "" {
		return nil
	}
	if _, ok := domain.ParseProviderKind(prefs.Provider); !ok {
		names := make([]string, len(domain.ProviderPriority))
		for i, kind := range domain.ProviderPriority {
			names[i] = string(kind)
		}
		return fmt.Errorf("preferences.provider must be one of %s, got %s", strings.Join(names, "|"), prefs.Provider)
	}
	return nil
}

func validateGeneration(gen domain.GenerationSettings) error {
	if gen.MaxAttempts < 0 || gen.MaxAttempts > 10 {
		return fmt.Errorf("generation.max_attempts must be between 1 and 10, got %d", gen.MaxAttempts)
	}
	if gen.RetryWaitSeconds < 0 {
		return fmt.Errorf("generation.retry_wait_seconds must be >= 0")
	}
	if gen.Temperature < 0 || gen.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %g", gen.Temperature)
	}
	return nil
}

func validateContext(ctx domain.ContextSettings) error {
	if ctx.LogCount < 0 {
		return fmt.Errorf("context.log_count must be > 0")
	}
	for _, pattern := range ctx.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("context.exclude: invalid pattern %q", pattern)
		}
	}
	return nil
}

func validatePullRequest(pr domain.PullRequestSettings) error {
	switch strings.ToLower(pr.Backend) {
	case "", domain.PRBackendGH, domain.PRBackendAPI:
		return nil
	default:
		return fmt.Errorf("pull_request.backend must be %s|%s, got %s", domain.PRBackendGH, domain.PRBackendAPI, pr.Backend)
	}
}
