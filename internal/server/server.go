// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /api/planets?timeframe=
//	GET /api/leylines?timeframe=
//	GET /api/layout?focus=&timeframe=&theater=&multigate=&inscribed=&dedupe=&hidden=&archive=
//	GET /api/layout.svg        (same parameters plus style, labels, title)
//	GET /api/path?planetA=&planetB=&timeframe=&theater=
//	GET /api/path.svg
//	GET /api/archive
//	GET /api/archive/{id}
//
// Errors are returned as JSON {"code": ..., "message": ...} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/leymap/pkg/pipeline"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server serves layouts and routes.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

// New returns a server. defaults supplies the dataset location and the
// layout settings that query parameters may override.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, defaults: defaults, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/planets", s.handlePlanets)
		r.Get("/leylines", s.handleLeylines)
		r.Get("/layout", s.handleLayout)
		r.Get("/layout.svg", s.handleLayoutSVG)
		r.Get("/path", s.handlePath)
		r.Get("/path.svg", s.handlePathSVG)
		r.Get("/archive", s.handleArchiveList)
		r.Get("/archive/{id}", s.handleArchiveGet)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
