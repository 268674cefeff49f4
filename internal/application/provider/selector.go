// Package provider chooses the generation backend for an invocation.
package provider

import (
	"os"
	"strings"

	"github.com/doeshing/gai-go/internal/domain"
)

// Selector picks exactly one provider from the credentials present.
type Selector struct {
	// Getenv reads model overrides; nil means os.Getenv.
	Getenv func(string) string
}

// Select returns the choice for creds. A pinned provider wins only when its
// credential exists; otherwise the fixed priority order decides.
func (s Selector) Select(creds domain.Credentials, prefs domain.Preferences) (domain.ProviderChoice, error) {
	kind, ok := s.pick(creds, prefs)
	if !ok {
		return domain.ProviderChoice{}, domain.ErrNoCredentials
	}
	return domain.ProviderChoice{
		Provider: kind,
		Model:    s.model(kind, prefs),
		APIKey:   strings.TrimSpace(creds[kind]),
	}, nil
}

func (s Selector) pick(creds domain.Credentials, prefs domain.Preferences) (domain.ProviderKind, bool) {
	if pinned, ok := domain.ParseProviderKind(prefs.Provider); ok && creds.Has(pinned) {
		return pinned, true
	}
	present := creds.Present()
	if len(present) == 0 {
		return "", false
	}
	return present[0], true
}

func (s Selector) model(kind domain.ProviderKind, prefs domain.Preferences) string {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, name := range domain.ModelOverrideEnvVars {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	if m := strings.TrimSpace(prefs.Model); m != "" {
		return m
	}
	return kind.DefaultModel()
}
