package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Generator turns a fully substituted prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrRateLimited means the provider reported quota exhaustion.
	ErrRateLimited = errors.New("rate limited")
	// ErrGenerationFailed covers every other provider failure.
	ErrGenerationFailed = errors.New("generation failed")
)

// ProviderError is a raw failure reported by a model provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return "provider error: " + e.Message
}

const quotaMarker = "RESOURCE_EXHAUSTED"

// Classify maps any provider error onto ErrRateLimited or ErrGenerationFailed.
// Already classified errors pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrGenerationFailed) {
		return err
	}
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if strings.Contains(err.Error(), quotaMarker) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", ErrGenerationFailed, err)
}

// Echo returns the prompt unchanged. It backs local development and tests.
type Echo struct{}

func (Echo) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return prompt, nil
}
