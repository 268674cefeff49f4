// Package domain defines the value types shared by every gai layer.
//
// This file holds generation backend definitions: which providers exist, the
// environment variables their keys come from, and the choice made for a run.
// The domain layer has no dependencies on infrastructure.
package domain

import "strings"

// ProviderKind identifies a generation backend.
type ProviderKind string

const (
	ProviderGemini    ProviderKind = "gemini"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderOllama    ProviderKind = "ollama"
)

// ProviderPriority is the fixed selection order when several credentials exist.
var ProviderPriority = []ProviderKind{
	ProviderGemini,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderOllama,
}

// ParseProviderKind resolves a user supplied provider name.
func ParseProviderKind(name string) (ProviderKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "google":
		return ProviderGemini, true
	case "claude":
		return ProviderAnthropic, true
	}
	for _, kind := range ProviderPriority {
		if string(kind) == name {
			return kind, true
		}
	}
	return "", false
}

// EnvVars returns the environment variables holding the credential for the
// provider, primary first.
func (k ProviderKind) EnvVars() []string {
	switch k {
	case ProviderGemini:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case ProviderOpenAI:
		return []string{"OPENAI_API_KEY"}
	case ProviderAnthropic:
		return []string{"ANTHROPIC_API_KEY"}
	case ProviderOllama:
		return []string{"OLLAMA_HOST"}
	default:
		return nil
	}
}

// DefaultModel is used when no model override is configured.
func (k ProviderKind) DefaultModel() string {
	switch k {
	case ProviderGemini:
		return "gemini-2.0-flash"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOllama:
		return "llama3.2"
	default:
		return ""
	}
}

// DefaultEndpoint is the HTTP endpoint for providers reached over plain HTTP.
// Gemini goes through its SDK and has none.
func (k ProviderKind) DefaultEndpoint() string {
	switch k {
	case ProviderOpenAI:
		return "https://api.openai.com/v1/chat/completions"
	case ProviderAnthropic:
		return "https://api.anthropic.com/v1/messages"
	case ProviderOllama:
		return "http://localhost:11434/v1/chat/completions"
	default:
		return ""
	}
}

// Keyless reports whether the provider's "credential" is only a locator.
func (k ProviderKind) Keyless() bool {
	return k == ProviderOllama
}

// ModelOverrideEnvVars are read, in order, for an explicit model name.
var ModelOverrideEnvVars = []string{"GAI_MODEL", "MODEL_NAME"}

// Credentials maps providers to the key found for them.
type Credentials map[ProviderKind]string

// Has reports whether a non-empty credential exists for the provider.
func (c Credentials) Has(kind ProviderKind) bool {
	return strings.TrimSpace(c[kind]) != ""
}

// Present lists providers with a credential, in priority order.
func (c Credentials) Present() []ProviderKind {
	var kinds []ProviderKind
	for _, kind := range ProviderPriority {
		if c.Has(kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// ProviderChoice is the single backend selected for one invocation.
type ProviderChoice struct {
	Provider ProviderKind
	Model    string
	APIKey   string
	Endpoint string
}

// String renders "provider/model".
func (p ProviderChoice) String() string {
	return string(p.Provider) + "/" + p.Model
}
