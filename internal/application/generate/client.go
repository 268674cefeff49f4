// Package generate wraps a provider call with the retry policy.
package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doeshing/gai-go/internal/domain"
	"github.com/doeshing/gai-go/internal/ports"
)

var errEmptyReply = errors.New("empty reply")

// Client retries transient provider failures with exponential backoff.
type Client struct {
	Factory     ports.ProviderFactory
	MaxAttempts int
	RetryWait   time.Duration
	Temperature float64
	Logger      ports.Logger
	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep func(context.Context, time.Duration) error
}

// NewClient builds a client from the generation settings.
func NewClient(factory ports.ProviderFactory, cfg domain.GenerationSettings, logger ports.Logger) *Client {
	return &Client{
		Factory:     factory,
		MaxAttempts: cfg.MaxAttempts,
		RetryWait:   time.Duration(cfg.RetryWaitSeconds * float64(time.Second)),
		Temperature: cfg.Temperature,
		Logger:      logger,
	}
}

// Generate implements ports.Generator.
func (c *Client) Generate(ctx context.Context, prompt domain.Prompt, choice domain.ProviderChoice) (domain.GeneratedArtifact, error) {
	provider, err := c.Factory.ForChoice(choice)
	if err != nil {
		return domain.GeneratedArtifact{}, err
	}

	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = domain.DefaultMaxAttempts
	}
	req := ports.ProviderRequest{
		Prompt:      prompt.Text,
		Model:       choice.Model,
		MaxTokens:   prompt.MaxTokens,
		Temperature: c.Temperature,
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := provider.Generate(ctx, req)
		if err == nil {
			text := domain.StripCodeFence(resp.Text)
			if text != "" {
				return domain.GeneratedArtifact{
					Kind:     prompt.Kind,
					Text:     text,
					Provider: choice.Provider,
					Model:    choice.Model,
					Attempts: attempt,
				}, nil
			}
			err = &domain.ProviderError{Provider: choice.Provider, Err: errEmptyReply}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.GeneratedArtifact{}, ctxErr
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.GeneratedArtifact{}, err
		}
		if !domain.IsTransient(err) {
			return domain.GeneratedArtifact{}, fmt.Errorf("generate with %s: %w", choice, err)
		}

		lastErr = err
		c.log("generation attempt failed", err, map[string]interface{}{
			"provider": string(choice.Provider),
			"attempt":  attempt,
		})
		if attempt == attempts {
			break
		}
		if err := c.sleep(ctx, c.backoff(attempt, err)); err != nil {
			return domain.GeneratedArtifact{}, err
		}
	}
	return domain.GeneratedArtifact{}, fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, lastErr)
}

// backoff doubles the base wait per attempt; a longer Retry-After wins.
func (c *Client) backoff(attempt int, err error) time.Duration {
	base := c.RetryWait
	if base <= 0 {
		base = domain.DefaultRetryWait
	}
	wait := base * time.Duration(1<<(attempt-1))
	var perr *domain.ProviderError
	if errors.As(err, &perr) && perr.RetryAfter > wait {
		wait = perr.RetryAfter
	}
	return wait
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) log(msg string, err error, fields map[string]interface{}) {
	if c.Logger == nil {
		return
	}
	fields["err"] = err.Error()
	c.Logger.Warn(msg, fields)
}

var _ ports.Generator = (*Client)(nil)
