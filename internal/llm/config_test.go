package llm

import (
	"testing"
)

func clearVendorKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "gemini" {
		t.Errorf("provider = %q, want gemini", cfg.Provider)
	}
	if got := resolveModel(cfg.Gemini.Model, geminiModels); got != "gemini-3-flash-preview" {
		t.Errorf("gemini model = %q, want gemini-3-flash-preview", got)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("max attempts = %d, want 1", cfg.Retry.MaxAttempts)
	}
}

func TestDiscoverKeys(t *testing.T) {
	t.Run("fills configured provider", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg := DiscoverKeys(DefaultConfig())
		if cfg.Provider != "gemini" || cfg.Gemini.APIKey != "g-key" {
			t.Errorf("got provider %q key %q", cfg.Provider, cfg.Gemini.APIKey)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("validate: %v", err)
		}
	})

	t.Run("switches to available provider", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("ANTHROPIC_API_KEY", "a-key")

		cfg := DiscoverKeys(DefaultConfig())
		if cfg.Provider != "anthropic" || cfg.Anthropic.APIKey != "a-key" {
			t.Errorf("got provider %q key %q", cfg.Provider, cfg.Anthropic.APIKey)
		}
	})

	t.Run("explicit key wins", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("OPENAI_API_KEY", "env-key")

		cfg := DefaultConfig()
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = "file-key"

		cfg = DiscoverKeys(cfg)
		if cfg.Provider != "openai" || cfg.OpenAI.APIKey != "file-key" {
			t.Errorf("got provider %q key %q", cfg.Provider, cfg.OpenAI.APIKey)
		}
	})

	t.Run("mock untouched", func(t *testing.T) {
		clearVendorKeys(t)
		t.Setenv("OPENAI_API_KEY", "env-key")

		cfg := DefaultConfig()
		cfg.Provider = "mock"
		if got := DiscoverKeys(cfg).Provider; got != "mock" {
			t.Errorf("provider = %q, want mock", got)
		}
	})
}
