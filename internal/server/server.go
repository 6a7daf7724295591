// Package server exposes the menu-generation HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-dinner-planner/internal/config"
	"ai-dinner-planner/internal/ratelimit"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 120 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wires the HTTP surface to the menu generator and its stores.
type Server struct {
	cfg        *config.Config
	generator  MenuGenerator
	limiter    Limiter
	recorder   GenerationRecorder
	saver      MenuSaver
	production bool
	startedAt  time.Time
}

// New assembles a Server. The generator, recorder and saver may be nil: a
// nil generator turns every generation request into a configuration error,
// and nil stores disable persistence. A nil limiter gets the configured
// sliding-window defaults.
func New(cfg *config.Config, generator MenuGenerator, limiter Limiter, recorder GenerationRecorder, saver MenuSaver) *Server {
	if limiter == nil {
		limiter = ratelimit.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	return &Server{
		cfg:        cfg,
		generator:  generator,
		limiter:    limiter,
		recorder:   recorder,
		saver:      saver,
		production: cfg.IsProduction(),
		startedAt:  time.Now(),
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
