// Package config loads studypack configuration from defaults, an optional
// YAML file and STUDYPACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/abhisek/studypack/internal/llm"
	"github.com/abhisek/studypack/internal/logging"
	"github.com/abhisek/studypack/internal/studypack"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STUDYPACK_"

const maxConfigFileSize = 1 << 20

// Config is the full application configuration.
type Config struct {
	// DB is the sqlite database path. Empty means the default location.
	DB string `koanf:"db"`

	LLM        llm.Config       `koanf:"llm"`
	Generation studypack.Config `koanf:"generation"`
	Backend    BackendConfig    `koanf:"backend"`
	Server     ServerConfig     `koanf:"server"`
	Log        logging.Config   `koanf:"log"`
}

// BackendConfig points the client at the course backend.
type BackendConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// ServerConfig configures `studypack serve`.
type ServerConfig struct {
	Addr string `koanf:"addr"`

	// JWTSecret signs and verifies bearer tokens (HS256).
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// RegenerateRate is the sustained regenerations per second allowed
	// across the server, with RegenerateBurst extra.
	RegenerateRate  float64 `koanf:"regenerate_rate"`
	RegenerateBurst int     `koanf:"regenerate_burst"`

	TranscriptTimeout time.Duration `koanf:"transcript_timeout"`

	// AllowedOrigins enables CORS for browser clients.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:        llm.DefaultConfig(),
		Generation: studypack.DefaultConfig(),
		Backend: BackendConfig{
			URL:     "http://localhost:8081",
			Timeout: 2 * time.Minute,
		},
		Server: ServerConfig{
			Addr:              ":8081",
			TokenTTL:          24 * time.Hour,
			RegenerateRate:    0.2,
			RegenerateBurst:   2,
			TranscriptTimeout: 10 * time.Second,
		},
		Log: logging.DefaultConfig(),
	}
}

// DefaultPath returns ~/.config/studypack/config.yaml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "studypack", "config.yaml"), nil
}

// Load reads configuration with precedence, highest first:
//
//  1. STUDYPACK_* environment variables
//  2. the YAML file at path (default path when empty; a missing file is fine)
//  3. built-in defaults
//
// Provider API keys still missing afterwards are discovered from the
// vendors' own variables (GEMINI_API_KEY and friends).
//
// Environment variables map onto nested keys by section:
//
//	STUDYPACK_LLM_PROVIDER        -> llm.provider
//	STUDYPACK_LLM_GEMINI_API_KEY  -> llm.gemini.api_key
//	STUDYPACK_SERVER_JWT_SECRET   -> server.jwt_secret
//	STUDYPACK_DB                  -> db
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readConfigFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// no config file yet
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LLM = llm.DiscoverKeys(cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// sections lists nested key prefixes, longest first, so that underscores
// inside field names survive the env transform.
var sections = func() []string {
	s := []string{
		"llm.anthropic", "llm.openai", "llm.gemini", "llm.openrouter", "llm.retry",
		"llm", "generation", "backend", "server", "log",
	}
	sort.SliceStable(s, func(i, j int) bool { return len(s[i]) > len(s[j]) })
	return s
}()

func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, sec := range sections {
		p := strings.ReplaceAll(sec, ".", "_") + "_"
		if strings.HasPrefix(key, p) {
			return sec + "." + strings.TrimPrefix(key, p)
		}
	}
	return key
}

// Validate checks settings that every command relies on. Provider keys
// are checked later, only by commands that generate content.
func (c *Config) Validate() error {
	if c.Generation.QuizQuestions <= 0 || c.Generation.Flashcards <= 0 {
		return errors.New("generation.quiz_questions and generation.flashcards must be positive")
	}
	if c.Generation.Pacing < 0 {
		return errors.New("generation.pacing must not be negative")
	}
	if strings.TrimSpace(c.Backend.URL) == "" {
		return errors.New("backend.url is required")
	}
	if c.Server.RegenerateRate < 0 {
		return errors.New("server.regenerate_rate must not be negative")
	}
	return nil
}
