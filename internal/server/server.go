// Package server exposes the panelmap pipeline over HTTP.
//
// Routes:
//
//	POST /v1/diagram               tree → laid-out diagram JSON
//	POST /v1/export?format=pdf     tree or diagram → document
//	GET  /healthz                  liveness and build info
//	GET  /metrics                  Prometheus metrics
//
// Build options (engine, direction, rank_sep, node_sep, normalize) can be
// overridden per request with query parameters. Errors are JSON objects of
// the form {"code": "INVALID_INPUT", "message": "..."}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/panelmap/pkg/observability"
	"github.com/matzehuels/panelmap/pkg/pipeline"
)

// DefaultMaxBodyBytes limits request bodies when Config leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

const shutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	Addr         string
	MaxBodyBytes int64

	// Runner executes requests; nil means an uncached runner.
	Runner *pipeline.Runner

	// Defaults are the pipeline options every request starts from.
	Defaults pipeline.Options

	// Metrics, when set, is registered as the global observability hooks
	// and served on /metrics.
	Metrics *Metrics

	Logger *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	addr     string
	maxBody  int64
	runner   *pipeline.Runner
	defaults pipeline.Options
	metrics  *Metrics
	logger   *log.Logger
	router   chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	s := &Server{
		addr:     cfg.Addr,
		maxBody:  cfg.MaxBodyBytes,
		runner:   cfg.Runner,
		defaults: cfg.Defaults,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	if s.addr == "" {
		s.addr = ":8080"
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodyBytes
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.metrics != nil {
		observability.SetPipelineHooks(s.metrics)
		observability.SetCacheHooks(s.metrics)
		observability.SetServerHooks(s.metrics)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/diagram", s.handleDiagram)
		r.Post("/export", s.handleExport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errMethodNotAllowed)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
