// Package server is the reference backend for study pack review and
// consumption. It serves the same REST contract the client package calls.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/studypack/internal/config"
	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/transcript"
)

// Assembler builds a study pack for a material.
type Assembler interface {
	Assemble(ctx context.Context, m studypack.Material, notes string, progress studypack.ProgressFunc) (*studypack.StudyPack, error)
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Store       *store.Store
	Assembler   Assembler
	Transcripts transcript.Fetcher
	Logger      *zap.Logger
}

// Server handles the review, study pack, transcript and analytics routes.
type Server struct {
	cfg         config.ServerConfig
	store       *store.Store
	assembler   Assembler
	transcripts transcript.Fetcher
	logger      *zap.Logger
	limiter     *rate.Limiter
	metrics     *metrics
	engine      *gin.Engine
	now         func() time.Time

	// writeMu serializes draft writes so the superseded-draft check and
	// the write it guards see the same latest pack.
	writeMu sync.Mutex
}

// New builds a Server and its routes.
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("server.jwt_secret is required")
	}
	if deps.Store == nil || deps.Assembler == nil || deps.Transcripts == nil {
		return nil, errors.New("server: store, assembler and transcript fetcher are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:         cfg,
		store:       deps.Store,
		assembler:   deps.Assembler,
		transcripts: deps.Transcripts,
		logger:      logger.Named("server"),
		limiter:     newLimiter(cfg.RegenerateRate, cfg.RegenerateBurst),
		metrics:     newMetrics(),
		now:         time.Now,
	}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), s.metrics.middleware())
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Org-ID"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", s.metrics.handler())
	r.GET("/youtube/transcript", s.youtubeTranscript)

	authed := r.Group("/")
	authed.Use(requireAuth(s.cfg.JWTSecret))
	authed.GET("/ai/studypack/:materialId", s.getStudyPack)
	authed.POST("/ai/transcript", s.fetchTranscript)
	authed.POST("/analytics/quiz/attempt", s.submitQuizAttempt)

	review := authed.Group("/")
	review.Use(requireInstructor())
	review.POST("/ai/studypack", s.uploadDraft)
	review.GET("/ai/review/:materialId", s.getReviewDraft)
	review.POST("/ai/review/:materialId/approve", s.approve)
	review.POST("/ai/review/:materialId/regenerate", limit(s.limiter), s.regenerate)

	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
