// Package server exposes the reflection engine over HTTP. Every read
// endpoint is backed by the CachedInspector, so repeated requests for an
// unchanged catalog never re-query the database.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/h2go/h2reflect/internal/database"
	"github.com/h2go/h2reflect/internal/logger"
	"github.com/h2go/h2reflect/internal/schema"
	"github.com/h2go/h2reflect/internal/snapshot"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the HTTP front-end. It owns the router; the connection, the
// cached inspector and the optional snapshot archiver are injected.
type Server struct {
	cfg       Config
	router    chi.Router
	conn      database.Conn
	inspector *schema.CachedInspector
	archiver  *snapshot.Archiver // nil when snapshot storage is not configured
	log       *logger.Logger

	httpServer *http.Server
}

// New wires routes and middleware and returns a Server ready to listen.
// archiver may be nil; the snapshot endpoints then answer 503.
func New(cfg Config, conn database.Conn, inspector *schema.CachedInspector, archiver *snapshot.Archiver, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}
	s := &Server{
		cfg:       cfg,
		conn:      conn,
		inspector: inspector,
		archiver:  archiver,
		log:       log,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemas", s.handleListSchemas)

		r.Route("/schemas/{schema}", func(r chi.Router) {
			r.Get("/", s.handleReflectSchema)
			r.Get("/tables", s.handleListTables)
			r.Get("/tables/{table}", s.handleReflectTable)
			r.Delete("/tables/{table}/cache", s.handleInvalidate)

			r.Get("/snapshots", s.handleListSnapshots)
			r.Post("/snapshots", s.handleSaveSnapshot)
		})

		r.Delete("/cache", s.handleResetCache)
	})

	s.router = r
}

// requestLogger logs one line per request with method, path, status and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("duration", time.Since(start).String()).
			Str("request_id", chimw.GetReqID(r.Context())).
			Logger().
			Info("request")
	})
}

// handleHealthz reports liveness and catalog reachability.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.conn.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListenAndServe starts the server and blocks until SIGINT/SIGTERM, then
// drains in-flight requests within the shutdown timeout.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", s.cfg.Addr).Logger().Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.log.Info("shutdown signal received, draining requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Router returns the underlying router, useful for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
