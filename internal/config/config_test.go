package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 8, cfg.Generation.QuizQuestions)
	assert.Equal(t, 12, cfg.Generation.Flashcards)
	assert.Equal(t, time.Second, cfg.Generation.Pacing)
	assert.Equal(t, "http://localhost:8081", cfg.Backend.URL)
	assert.Equal(t, ":8081", cfg.Server.Addr)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
llm:
  provider: anthropic
  anthropic:
    api_key: file-key
  retry:
    max_attempts: 3
generation:
  quiz_questions: 5
  pacing: 250ms
  structured: true
backend:
  url: https://courses.example
server:
  jwt_secret: s3cret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "file-key", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 5, cfg.Generation.QuizQuestions)
	assert.Equal(t, 12, cfg.Generation.Flashcards)
	assert.Equal(t, 250*time.Millisecond, cfg.Generation.Pacing)
	assert.True(t, cfg.Generation.Structured)
	assert.Equal(t, "https://courses.example", cfg.Backend.URL)
	assert.Equal(t, "s3cret", cfg.Server.JWTSecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "llm:\n  provider: openai\n")
	t.Setenv("STUDYPACK_LLM_PROVIDER", "mock")
	t.Setenv("STUDYPACK_LLM_GEMINI_API_KEY", "env-gemini")
	t.Setenv("STUDYPACK_SERVER_JWT_SECRET", "env-secret")
	t.Setenv("STUDYPACK_GENERATION_KEY_POINTS", "6")
	t.Setenv("STUDYPACK_DB", "/tmp/studypack-test.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "env-gemini", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "env-secret", cfg.Server.JWTSecret)
	assert.Equal(t, 6, cfg.Generation.KeyPoints)
	assert.Equal(t, "/tmp/studypack-test.db", cfg.DB)
}

func TestLoad_DiscoversVendorKeys(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "vendor-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "vendor-key", cfg.LLM.Gemini.APIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "generation:\n  quiz_questions: 0\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"STUDYPACK_LLM_PROVIDER":            "llm.provider",
		"STUDYPACK_LLM_OPENROUTER_BASE_URL": "llm.openrouter.base_url",
		"STUDYPACK_LLM_RETRY_MAX_ATTEMPTS":  "llm.retry.max_attempts",
		"STUDYPACK_LOG_MAX_SIZE_MB":         "log.max_size_mb",
		"STUDYPACK_BACKEND_URL":             "backend.url",
		"STUDYPACK_DB":                      "db",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}
