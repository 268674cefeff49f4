package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

type httpProvider struct {
	choice     domain.ProviderChoice
	endpoint   string
	httpClient *http.Client
	adapter    providerAdapter
}

type providerAdapter struct {
	buildRequest  func(model string, req ports.ProviderRequest) ([]byte, error)
	parseResponse func([]byte) (string, error)
	setHeaders    func(*http.Request, domain.ProviderChoice)
}

func newHTTPProvider(choice domain.ProviderChoice, endpoint string, client *http.Client, adapter providerAdapter) ports.Provider {
	return &httpProvider{
		choice:     choice,
		endpoint:   endpoint,
		httpClient: client,
		adapter:    adapter,
	}
}

func (p *httpProvider) Name() domain.ProviderKind {
	return p.choice.Provider
}

func (p *httpProvider) Generate(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	model := req.Model
	if model == "" {
		model = p.choice.Model
	}
	body, err := p.adapter.buildRequest(model, req)
	if err != nil {
		return ports.ProviderResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	p.adapter.setHeaders(httpReq, p.choice)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ports.ProviderResponse{}, ctx.Err()
		}
		return ports.ProviderResponse{}, &domain.ProviderError{Provider: p.choice.Provider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, p.parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProviderResponse{}, &domain.ProviderError{Provider: p.choice.Provider, Err: err}
	}
	text, err := p.adapter.parseResponse(data)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("decode %s response: %w", p.choice.Provider, err)
	}
	return ports.ProviderResponse{Text: text}, nil
}

func (p *httpProvider) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	perr := &domain.ProviderError{
		Provider:   p.choice.Provider,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(body),
		RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
	}
	if perr.Message == "" {
		perr.Message = http.StatusText(resp.StatusCode)
	}
	return perr
}

// errorMessage extracts the message from the error shapes used by the
// supported APIs: {"error":{"message":..}}, {"error":".."} and {"message":..}.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &flat) == nil {
		if flat.Message != "" {
			return flat.Message
		}
		if flat.Error != "" {
			return flat.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// retryAfter parses the header as delay seconds or an HTTP date.
func retryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func openaiAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setBearerHeaders,
	}
}

func ollamaAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    func(*http.Request, domain.ProviderChoice) {},
	}
}

func anthropicAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildAnthropicRequest,
		parseResponse: parseAnthropicResponse,
		setHeaders:    setAnthropicHeaders,
	}
}

func setBearerHeaders(req *http.Request, choice domain.ProviderChoice) {
	req.Header.Set("authorization", "Bearer "+choice.APIKey)
}
