package llm

import (
	"fmt"
	"time"
)

// Config holds completion-provider configuration.
type Config struct {
	// Provider selects the backing service. Values: "openai", "mock".
	Provider string `mapstructure:"provider"`

	OpenAI OpenAIConfig `mapstructure:"openai"`
	Retry  RetryConfig  `mapstructure:"retry"`

	// Timeout bounds a single completion call, retries included.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI-specific configuration. BaseURL allows
// OpenAI-compatible endpoints.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Validate checks that the selected provider has its required key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("llm.openai.api_key is required for the openai provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown completion provider: %q", c.Provider)
	}
	return nil
}
