// Package server implements the waffle HTTP API.
//
// The server exposes dataset storage and chart rendering on top of a
// store.Store and a pipeline.Runner:
//
//	POST   /api/datasets            store a dataset
//	GET    /api/datasets            list stored datasets
//	GET    /api/datasets/{id}       fetch a stored dataset
//	DELETE /api/datasets/{id}       delete a stored dataset
//	GET    /api/datasets/{id}/chart render a stored dataset
//	POST   /api/charts              render an inline dataset
//	GET    /healthz                 liveness probe
//
// Chart endpoints return raw artifact bytes with a matching
// Content-Type, so a chart URL can be embedded directly in an <img>
// tag. Errors are returned as a JSON envelope carrying the error code.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/waffleviz/waffle/pkg/cache"
	"github.com/waffleviz/waffle/pkg/pipeline"
	"github.com/waffleviz/waffle/pkg/store"
)

// shutdownTimeout bounds how long graceful shutdown waits for in-flight
// requests.
const shutdownTimeout = 10 * time.Second

// Server serves the waffle HTTP API.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// Config holds server dependencies. Nil fields are replaced with safe
// defaults by New.
type Config struct {
	Store  store.Store // dataset storage (default: in-memory)
	Cache  cache.Cache // pipeline cache (default: no caching)
	Logger *log.Logger // structured logger (default: discard)
}

// New creates a Server with all routes and middleware registered.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		store:  cfg.Store,
		runner: pipeline.NewRunner(cfg.Cache, nil, cfg.Logger),
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", s.handleCreateDataset)
			r.Get("/", s.handleListDatasets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDataset)
				r.Delete("/", s.handleDeleteDataset)
				r.Get("/chart", s.handleDatasetChart)
			})
		})
		r.Post("/charts", s.handleInlineChart)
	})

	return r
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down gracefully. It blocks until shutdown completes.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the server's backing resources: the pipeline cache and
// the dataset store.
func (s *Server) Close(ctx context.Context) error {
	if err := s.runner.Close(); err != nil {
		return err
	}
	return s.store.Close(ctx)
}
