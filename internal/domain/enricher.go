package domain

import "context"

// TokenUsage counts language-model tokens consumed by one or more requests.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Add returns the sum of u and other.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

// Enricher derives structured fields from a storm description.
type Enricher interface {
	// Enrich returns the extracted fields and the tokens spent on the request.
	// Usage is returned even when the response fails to decode.
	Enrich(ctx context.Context, description string) (EnrichmentResult, TokenUsage, error)
}
