package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/config"
	"github.com/abhisek/studypack/internal/llm"
	"github.com/abhisek/studypack/internal/logging"
	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// appEnv bundles what most commands need: configuration, a logger and
// the local store.
type appEnv struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	dbPath string
}

// setup loads configuration, builds the logger and opens the store.
// console mirrors logs to stderr; TUI commands leave it off.
func setup(cmd *cobra.Command, console bool) (*appEnv, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log
	if console {
		logCfg.Console = true
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &appEnv{cfg: cfg, logger: logger, store: st, dbPath: dbPath}, nil
}

func (r *appEnv) Close() {
	_ = r.logger.Sync()
	_ = r.store.Close()
}

// provider builds the configured LLM provider, recording every call in the
// store.
func (r *appEnv) provider(ctx context.Context) (llm.Provider, error) {
	if err := r.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}
	return llm.NewProvider(ctx, r.cfg.LLM, r.store.EventRepo(), r.logger)
}

// assembler builds the study pack pipeline on top of provider.
func (r *appEnv) assembler(ctx context.Context) (*studypack.Assembler, error) {
	p, err := r.provider(ctx)
	if err != nil {
		return nil, err
	}
	producer := studypack.NewProducer(p, r.cfg.Generation, r.logger)
	return studypack.NewAssembler(producer, r.cfg.Generation, r.logger), nil
}

// client returns a backend client for the persisted session.
func (r *appEnv) client(ctx context.Context) (*backend.Client, error) {
	session, err := backend.LoadSession(ctx, r.store.KV())
	if err != nil {
		return nil, err
	}
	return backend.New(session, backend.Options{
		BaseURL: r.cfg.Backend.URL,
		Timeout: r.cfg.Backend.Timeout,
		Logger:  r.logger,
	}), nil
}

// sessionStatus is the header status shown by the TUI commands.
func sessionStatus(c *backend.Client) string {
	if c.Session().SignedIn() {
		return c.BaseURL()
	}
	return "signed out"
}
