package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Core failure taxonomy.
var (
	// ErrEmptyContext indicates there is nothing to summarize.
	ErrEmptyContext = errors.New("nothing to summarize")

	// ErrEmptyDiff indicates a diff query returned no changes. It wraps ErrEmptyContext.
	ErrEmptyDiff = fmt.Errorf("no changes found: %w", ErrEmptyContext)

	// ErrNotFound indicates a blame target file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrOutOfRange indicates a blame line outside the file.
	ErrOutOfRange = errors.New("line out of range")

	// ErrNoCredentials indicates no provider has a key configured.
	ErrNoCredentials = errors.New("no API keys found")

	// ErrInvalidCredentials indicates the provider rejected the key.
	ErrInvalidCredentials = errors.New("API key rejected")

	// ErrGenerationUnavailable indicates transient failures exhausted all attempts.
	ErrGenerationUnavailable = errors.New("generation unavailable, try again later")

	// ErrRejected indicates the user declined the generated text.
	ErrRejected = errors.New("aborted")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates a provider-side server error.
	ErrProviderUnavailable = errors.New("provider server error")
)

// ToolError is a failure of an external tool (git, gh, pre-commit). Its exit
// code and stderr are surfaced to the user unchanged.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	cmd := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return fmt.Sprintf("%s: %s", cmd, stderr)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", cmd, e.Err)
	}
	return fmt.Sprintf("%s: exit status %d", cmd, e.ExitCode)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// ProviderError is a failed request to a generation backend.
type ProviderError struct {
	Provider   ProviderKind
	StatusCode int
	Message    string
	RetryAfter time.Duration
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API error (%d)", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
}

// Unwrap maps the status code to the matching sentinel, or returns the
// transport error when there is no status.
func (e *ProviderError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrInvalidCredentials
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrProviderUnavailable
	case e.StatusCode == 0:
		return e.Err
	}
	if strings.Contains(strings.ToLower(e.Message), "api key not valid") {
		return ErrInvalidCredentials
	}
	return e.Err
}

// IsTransient reports whether a provider failure is worth another attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrProviderUnavailable) {
		return true
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		// No status means the request never completed: network error or timeout.
		return pe.StatusCode == 0 && pe.Err != nil
	}
	return false
}

// ExitCodeFor maps an error returned by a command to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var te *ToolError
	if errors.As(err, &te) && te.ExitCode > 0 {
		return te.ExitCode
	}
	return 1
}
