package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// geminiProvider talks to the Gemini API through the official SDK. The
// client is created lazily so selecting Gemini costs nothing until a call.
type geminiProvider struct {
	choice     domain.ProviderChoice
	httpClient *http.Client
}

func newGeminiProvider(choice domain.ProviderChoice, client *http.Client) ports.Provider {
	return &geminiProvider{choice: choice, httpClient: client}
}

func (p *geminiProvider) Name() domain.ProviderKind {
	return domain.ProviderGemini
}

func (p *geminiProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	cfg := &genai.ClientConfig{
		APIKey:     p.choice.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.choice.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.choice.Endpoint}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return ports.ProviderResponse{}, &domain.ProviderError{Provider: domain.ProviderGemini, Err: err}
	}

	model := req.Model
	if model == "" {
		model = p.choice.Model
	}
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		if ctx.Err() != nil {
			return ports.ProviderResponse{}, ctx.Err()
		}
		return ports.ProviderResponse{}, geminiError(err)
	}
	return ports.ProviderResponse{Text: strings.TrimSpace(resp.Text())}, nil
}

// geminiError converts SDK errors to the shared provider error shape.
func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{
			Provider:   domain.ProviderGemini,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	return &domain.ProviderError{Provider: domain.ProviderGemini, Err: err}
}
