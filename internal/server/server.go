// Package server implements the fixturefit HTTP API.
//
// # Endpoints
//
//   - GET  /                  health check
//   - POST /api/generate      run a beam search and store the best layout
//   - GET  /api/layout/{id}   fetch the stored response of a layout
//   - GET  /layouts/{id}      fetch the stored layout, response and timestamp
//
// Generated layouts are kept in the runner's cache under their id for
// [cache.TTLStoredLayout], so a Redis-backed runner shares them between
// server instances.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fixturefit/pkg/cache"
	"github.com/matzehuels/fixturefit/pkg/catalog"
	"github.com/matzehuels/fixturefit/pkg/pipeline"
)

// Defaults for Options.
const (
	DefaultAddr         = ":8000"
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 2 * time.Minute
)

// Options configures a Server. Zero fields take their defaults.
type Options struct {
	Catalog      *catalog.Catalog
	Attempts     int
	Parallelism  int
	MaxBodyBytes int64
	Timeout      time.Duration
	Logger       *log.Logger
}

// Server serves the API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
}

// New creates a server. The runner's cache stores generated layouts.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, opts: opts, logger: opts.Logger}
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/", s.health)
	r.Post("/api/generate", s.generate)
	r.Get("/api/layout/{id}", s.getLayout)
	r.Get("/layouts/{id}", s.getStoredLayout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) layoutKey(id string) string {
	return s.runner.Keyer.LayoutKey(id)
}

func (s *Server) store(ctx context.Context, id string, data []byte) error {
	return s.runner.Cache.Set(ctx, s.layoutKey(id), data, cache.TTLStoredLayout)
}
