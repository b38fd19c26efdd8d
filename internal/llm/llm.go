package llm

import (
	"context"
	"fmt"

	"gohan-planner/internal/config"
	"gohan-planner/internal/shared"
)

// DefaultMaxOutputTokens bounds the size of a generated answer.
const DefaultMaxOutputTokens = 8000

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator produces text from a system instruction and a user message.
type TextGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewFromConfig builds the generator selected by cfg.LLMProvider. It returns a
// nil generator and no error when the provider's credential is missing, so the
// caller can report the gap on first use instead of at startup.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if _, key := cfg.LLMCredential(); key == "" {
		return nil, nil
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.ProviderGroq:
		return NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
