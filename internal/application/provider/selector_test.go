package provider

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/gai-go/internal/domain"
)

func noEnv(string) string { return "" }

func TestSelectPriority(t *testing.T) {
	tests := []struct {
		name  string
		creds domain.Credentials
		want  domain.ProviderKind
	}{
		{"gemini first", domain.Credentials{domain.ProviderOpenAI: "o", domain.ProviderGemini: "g", domain.ProviderAnthropic: "a"}, domain.ProviderGemini},
		{"openai over anthropic", domain.Credentials{domain.ProviderAnthropic: "a", domain.ProviderOpenAI: "o"}, domain.ProviderOpenAI},
		{"ollama last", domain.Credentials{domain.ProviderOllama: "localhost:11434"}, domain.ProviderOllama},
		{"blank ignored", domain.Credentials{domain.ProviderGemini: "  ", domain.ProviderAnthropic: "a"}, domain.ProviderAnthropic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Selector{Getenv: noEnv}.Select(tt.creds, domain.Preferences{})
			if err != nil {
				t.Fatalf("Select error: %v", err)
			}
			if got.Provider != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got.Provider)
			}
			if got.Model != tt.want.DefaultModel() {
				t.Fatalf("expected default model, got %s", got.Model)
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	creds := domain.Credentials{domain.ProviderOpenAI: "o", domain.ProviderAnthropic: "a", domain.ProviderOllama: "h"}
	first, _ := Selector{Getenv: noEnv}.Select(creds, domain.Preferences{})
	for i := 0; i < 20; i++ {
		got, _ := Selector{Getenv: noEnv}.Select(creds, domain.Preferences{})
		if diff := cmp.Diff(first, got); diff != "" {
			t.Fatalf("selection changed:\n%s", diff)
		}
	}
}

func TestSelectWithoutCredentials(t *testing.T) {
	_, err := Selector{Getenv: noEnv}.Select(domain.Credentials{}, domain.Preferences{Provider: "openai"})
	if !errors.Is(err, domain.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestSelectPinnedProvider(t *testing.T) {
	creds := domain.Credentials{domain.ProviderGemini: "g", domain.ProviderAnthropic: "a"}

	got, _ := Selector{Getenv: noEnv}.Select(creds, domain.Preferences{Provider: "claude"})
	if got.Provider != domain.ProviderAnthropic || got.APIKey != "a" {
		t.Fatalf("expected pinned anthropic, got %+v", got)
	}

	got, _ = Selector{Getenv: noEnv}.Select(creds, domain.Preferences{Provider: "openai"})
	if got.Provider != domain.ProviderGemini {
		t.Fatalf("pin without credential must fall back to priority, got %s", got.Provider)
	}
}

func TestSelectModelOverride(t *testing.T) {
	creds := domain.Credentials{domain.ProviderOpenAI: "o"}
	env := map[string]string{"MODEL_NAME": "gpt-4.1"}
	getenv := func(k string) string { return env[k] }

	got, _ := Selector{Getenv: getenv}.Select(creds, domain.Preferences{Model: "gpt-4o"})
	if got.Model != "gpt-4.1" {
		t.Fatalf("env override should win, got %s", got.Model)
	}

	env["GAI_MODEL"] = "o3-mini"
	got, _ = Selector{Getenv: getenv}.Select(creds, domain.Preferences{Model: "gpt-4o"})
	if got.Model != "o3-mini" {
		t.Fatalf("GAI_MODEL should win over MODEL_NAME, got %s", got.Model)
	}

	got, _ = Selector{Getenv: noEnv}.Select(creds, domain.Preferences{Model: "gpt-4o"})
	if got.Model != "gpt-4o" {
		t.Fatalf("config model expected, got %s", got.Model)
	}
}
