// Package server exposes the playlist pipeline as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Options configures the router.
type Options struct {
	Logger  zerolog.Logger
	Timeout time.Duration
	// Registry receives the metrics and backs /metrics. A fresh registry is
	// used when nil.
	Registry *prometheus.Registry
}

// NewRouter wires middleware and routes around p.
func NewRouter(p Pipeline, opts Options) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)

	r := chi.NewRouter()

	// Outermost first.
	r.Use(
		RequestID(),
		Logging(opts.Logger, metrics),
		Recover(),
		Timeout(opts.Timeout),
	)

	h := NewHandlers(p, metrics)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", h.Search)
		r.Post("/playlists", h.CreatePlaylist)
	})

	return r
}

// Server runs the HTTP API until its context is cancelled.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

// New creates a Server listening on addr.
func New(addr string, handler http.Handler, logger zerolog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("http shutdown incomplete")
		return err
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
