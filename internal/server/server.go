// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the pipeline over HTTP. Generated schemas are
// cached in the schema store when one is configured.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/schema-engine/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Generator produces a schema for an exam name. *engine.Engine implements it.
type Generator interface {
	GenerateExamSchema(ctx context.Context, examName string, opts types.ExtractionOptions) types.ExamSchema
}

// Server is the HTTP API.
type Server struct {
	cfg    types.ServerConfig
	gen    Generator
	store  types.SchemaStore
	logger *zap.Logger
	now    func() time.Time
	router *gin.Engine
}

// New builds a Server. store may be nil, in which case nothing is cached
// and schema lookups report 503.
func New(cfg types.ServerConfig, gen Generator, store types.SchemaStore, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:    cfg,
		gen:    gen,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware(), recoveryMiddleware(s.logger), loggerMiddleware(s.logger), corsMiddleware())

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.POST("/generate-schema", s.generateSchema)
	api.GET("/schemas/:examId", s.getSchema)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
