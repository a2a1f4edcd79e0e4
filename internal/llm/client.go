// Package llm wraps the external text-completion capability used for
// sentence generation and grading. The contract is deliberately thin:
// a prompt goes in, free-form text comes out, and any structure in the
// response is convention enforced only by prompt wording.
package llm

import (
	"context"
	"fmt"
)

// Client is the completion capability consumed by the practice engine.
type Client interface {
	// Complete sends a prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// ModelID returns the model identifier this client is configured to use.
	ModelID() string
}

// NewClient builds a Client from configuration, wrapped with retry and
// timeout middleware. The "mock" provider answers every prompt with
// canned text for development without an API key.
func NewClient(cfg Config) (Client, error) {
	var base Client

	switch cfg.Provider {
	case "openai":
		oc, err := NewOpenAIClient(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("initializing openai client: %w", err)
		}
		base = oc
	case "mock":
		base = NewDevClient()
	default:
		return nil, fmt.Errorf("unknown completion provider: %q", cfg.Provider)
	}

	// Timeout outermost: cfg.Timeout bounds one logical call, retries
	// included.
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
