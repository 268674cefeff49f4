package ai

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// Factory builds providers for a selected backend.
type Factory struct {
	httpClient *http.Client
}

// NewFactory returns a factory whose HTTP providers share one client.
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPClientTimeout
	}
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ForChoice returns the provider for choice.
func (f *Factory) ForChoice(choice domain.ProviderChoice) (ports.Provider, error) {
	switch choice.Provider {
	case domain.ProviderGemini:
		return newGeminiProvider(choice, f.httpClient), nil
	case domain.ProviderOpenAI:
		return newHTTPProvider(choice, endpointFor(choice), f.httpClient, openaiAdapter()), nil
	case domain.ProviderAnthropic:
		return newHTTPProvider(choice, endpointFor(choice), f.httpClient, anthropicAdapter()), nil
	case domain.ProviderOllama:
		return newHTTPProvider(choice, endpointFor(choice), f.httpClient, ollamaAdapter()), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", choice.Provider)
	}
}

// endpointFor resolves the URL for HTTP providers. For Ollama the credential
// is the OLLAMA_HOST locator.
func endpointFor(choice domain.ProviderChoice) string {
	if choice.Endpoint != "" {
		return choice.Endpoint
	}
	if choice.Provider == domain.ProviderOllama && choice.APIKey != "" {
		return OllamaEndpoint(choice.APIKey)
	}
	return choice.Provider.DefaultEndpoint()
}

// OllamaEndpoint turns an OLLAMA_HOST value ("host:port" or a URL) into the
// chat completions URL.
func OllamaEndpoint(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return domain.ProviderOllama.DefaultEndpoint()
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/v1/chat/completions"
}

var _ ports.ProviderFactory = (*Factory)(nil)
