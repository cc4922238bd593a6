// Package server serves the documentation site on demand, rendering every page
// per request from the current Generator, and optionally rebuilds that
// Generator when the template or package manifests change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sdkdocs/internal/config"
	derrors "git.home.luguber.info/inful/sdkdocs/internal/errors"
	"git.home.luguber.info/inful/sdkdocs/internal/logfields"
	"git.home.luguber.info/inful/sdkdocs/internal/metrics"
	"git.home.luguber.info/inful/sdkdocs/internal/webdocs"
)

const shutdownTimeout = 5 * time.Second

// Loader builds a fresh Generator from the sources on disk.
type Loader func() (*webdocs.Generator, error)

// Server is the preview HTTP server.
type Server struct {
	cfg      *config.Config
	load     Loader
	gen      atomic.Pointer[webdocs.Generator]
	router   *chi.Mux
	recorder metrics.Recorder
	registry *prom.Registry
	logger   *slog.Logger
}

// New loads the initial Generator and wires the routes. A failing initial
// load is returned; later reload failures keep the previous Generator.
func New(cfg *config.Config, load Loader) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		load:     load,
		router:   chi.NewRouter(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	if cfg.Serve.Metrics {
		s.registry = prom.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(s.registry)
	}

	gen, err := load()
	if err != nil {
		return nil, err
	}
	s.swap(gen)

	s.setupRoutes()
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Generator returns the Generator currently serving requests.
func (s *Server) Generator() *webdocs.Generator { return s.gen.Load() }

// Reload rebuilds the Generator. On failure the current one stays in place.
func (s *Server) Reload() error {
	gen, err := s.load()
	if err != nil {
		s.logger.Error("Reload failed, keeping previous documentation", logfields.Error(err))
		return err
	}
	s.swap(gen)
	s.logger.Info("Documentation reloaded", slog.Int("packages", gen.Index().Len()))
	return nil
}

func (s *Server) swap(gen *webdocs.Generator) {
	s.gen.Store(gen)
	s.recorder.SetPackages(gen.Index().Len())
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	if s.registry != nil {
		s.router.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}

	s.router.Get("/", s.handleIndex)
	s.router.Get("/index.html", s.handleIndex)
	s.router.Get("/packages.json", s.handlePackagesJSON)
	s.router.Get("/"+s.cfg.Guides.Target+"/*", s.handleGuide)
	s.router.Get("/"+s.cfg.PackagesDir+"/{dir}/{page}", s.handlePackage)
	s.router.Get("/"+s.cfg.PackagesDir+"/{dir}/*", s.handleModule)
	s.router.Get("/"+staticPrefix(s.cfg.Template)+"/*", s.handleStatic)
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorAdapter.WriteErrorResponse(w, r, derrors.NotFound("page", r.URL.Path))
	})
}

// ListenAndServe serves on cfg.Serve.Addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Serve.Addr)
	if err != nil {
		return derrors.Wrap(err, derrors.CategoryServer, derrors.SeverityFatal, "listen failed").
			WithContext("addr", s.cfg.Serve.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving documentation", logfields.URL("http://"+ln.Addr().String()+"/"))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return derrors.Wrap(err, derrors.CategoryServer, derrors.SeverityFatal, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
