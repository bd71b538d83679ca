package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/couchcryptid/storm-season-scraper/internal/domain"
)

// Settings configures the OpenAI client.
type Settings struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements domain.Enricher using the official openai-go SDK
// (chat completions with a strict JSON schema response format).
type Client struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewClient creates an OpenAI-backed enricher.
func NewClient(cfg Settings, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Enrich asks the model for the death toll and affected areas of a storm.
// The returned usage covers the request even when decoding fails.
func (c *Client) Enrich(ctx context.Context, description string) (domain.EnrichmentResult, domain.TokenUsage, error) {
	prompt := BuildPrompt(description)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "storm_enrichment",
					Strict: openai.Bool(true),
					Schema: enrichmentSchema,
				},
			},
		},
	})
	if err != nil {
		return domain.EnrichmentResult{}, domain.TokenUsage{}, fmt.Errorf("chat completion: %w", err)
	}

	usage := domain.TokenUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}

	if len(resp.Choices) == 0 {
		return domain.EnrichmentResult{}, usage, fmt.Errorf("%w: empty choices", domain.ErrMalformedEnrichment)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("chat completion received",
		"model", c.model,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)

	result, err := DecodeEnrichment(content)
	if err != nil {
		return domain.EnrichmentResult{}, usage, err
	}
	return result, usage, nil
}
