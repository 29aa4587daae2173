// Package server exposes the service over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rewired-gh/lottoracle/internal/config"
	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/service"
)

// maxBodySize caps request bodies, uploads included.
const maxBodySize = 10 << 20

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to the service.
type Server struct {
	svc      *service.Service
	validate *validator.Validate
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
}

// New creates a server with its own metrics registry.
func New(svc *service.Service) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		svc:      svc,
		validate: newValidator(),
		registry: registry,
		metrics:  newMetrics(registry),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/report", s.handleReport)
		r.Get("/draws", s.handleDraws)
		r.Post("/draws/import", s.handleImport)
		r.Get("/export.csv", s.handleExport(service.FormatCSV))
		r.Get("/export.xlsx", s.handleExport(service.FormatXLSX))

		r.Post("/predictions", s.handlePredict)
		r.Get("/predictions/saved", s.handleSavedPredictions)
		r.Post("/lucky", s.handleLucky)
		r.Post("/numerology", s.handleNumerology)
		r.Get("/dream", s.handleDream)
		r.Post("/check", s.handleCheck)

		r.Post("/fetch/latest", s.handleFetchLatest)
		r.Post("/fetch/history", s.handleFetchHistory)

		r.Get("/cache", s.handleCacheInfo)
		r.Delete("/cache", s.handleClearCache)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%s) [%s]", r.Method, r.URL.Path, ww.Status(),
			time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}
