package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/telemetry"
)

const defaultModel = "gemma-3-12b-it"

// Config holds configuration for an OpenAI-compatible chat endpoint.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string // e.g. Gemini's OpenAI-compatible endpoint
	Timeout    time.Duration
	HTTPClient *http.Client // optional (tests)
}

// Client implements llm.Generator with a single chat completion per call.
type Client struct {
	client openai.Client
	model  string
}

// NewClient constructs a client. SDK retries are disabled: one attempt per request.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", llm.Classify(mapOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response missing choices", llm.ErrGenerationFailed)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty content", llm.ErrGenerationFailed)
	}

	telemetry.Info("llm.usage", map[string]any{
		"model":             c.model,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"duration_ms":       time.Since(start).Milliseconds(),
	})
	return content, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.ProviderError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
	}
	return err
}

var _ llm.Generator = (*Client)(nil)
