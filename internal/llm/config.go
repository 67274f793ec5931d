package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects the model vendor used to generate study packs. It is read
// from the "llm" section of the config file.
type Config struct {
	Provider string `koanf:"provider"` // gemini, anthropic, openai, openrouter or mock

	Anthropic  AnthropicConfig  `koanf:"anthropic"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	OpenRouter OpenRouterConfig `koanf:"openrouter"`
	Retry      RetryConfig      `koanf:"retry"`

	// Timeout caps one generation call, retries included.
	Timeout time.Duration `koanf:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

// OpenAIConfig also serves OpenAI-compatible gateways through BaseURL.
type OpenAIConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type OpenRouterConfig struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"` // vendor-qualified, e.g. google/gemini-2.5-flash
	BaseURL string `koanf:"base_url"`
}

// RetryConfig shapes the backoff between attempts. MaxAttempts 1 disables
// retrying; the producer's fallbacks already cover a failed stage.
type RetryConfig struct {
	MaxAttempts int           `koanf:"max_attempts"`
	InitialWait time.Duration `koanf:"initial_wait"`
	MaxWait     time.Duration `koanf:"max_wait"`
	Multiplier  float64       `koanf:"multiplier"`
}

// DefaultConfig uses Gemini Flash, the cheapest model that handles a full
// lecture transcript, with a single attempt per stage.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-3-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: time.Minute,
	}
}

// DiscoverKeys fills in missing API keys from the conventional vendor
// environment variables. When no provider key was configured explicitly,
// the provider is switched to the first one whose key is found, probed in
// order Gemini → OpenAI → Anthropic → OpenRouter.
func DiscoverKeys(cfg Config) Config {
	vendor := []struct {
		provider string
		env      string
		key      *string
	}{
		{"gemini", "GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"openai", "OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"anthropic", "ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"openrouter", "OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey},
	}

	for _, v := range vendor {
		if *v.key == "" {
			*v.key = os.Getenv(v.env)
		}
	}

	if cfg.Provider == "mock" || cfg.Validate() == nil {
		return cfg
	}
	for _, v := range vendor {
		if *v.key != "" {
			cfg.Provider = v.provider
			break
		}
	}
	return cfg
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("an Anthropic API key is required (STUDYPACK_LLM_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY)")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("an OpenAI API key is required (STUDYPACK_LLM_OPENAI_API_KEY or OPENAI_API_KEY)")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("a Gemini API key is required (STUDYPACK_LLM_GEMINI_API_KEY or GEMINI_API_KEY)")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("an OpenRouter API key is required (STUDYPACK_LLM_OPENROUTER_API_KEY or OPENROUTER_API_KEY)")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
