// Package server exposes the codec over HTTP for use as a conversion
// service.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// maxBodyBytes caps request bodies; interchanges are small and a runaway
// upload should not exhaust memory.
const maxBodyBytes = 32 << 20

// Server is the HTTP conversion server.
type Server struct {
	port   int
	delims edi.Options
	logger *slog.Logger
}

// Config holds configuration for the conversion server.
type Config struct {
	Port int

	// Delims are delimiter overrides applied to every parse; unset slots
	// are inferred per request.
	Delims edi.Options

	Logger *slog.Logger
}

// NewServer creates a new conversion server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		port:   cfg.Port,
		delims: cfg.Delims,
		logger: logger,
	}
}

// Routes builds the HTTP handler. Exposed separately from Serve so tests
// can drive it with httptest.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestID,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/to-xml", s.handleToXML)
		r.Post("/from-xml", s.handleFromXML)
		r.Post("/inspect", s.handleInspect)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting conversion server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down conversion server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestID tags every request with a UUID, echoed in the X-Request-ID
// header and attached to the request log line.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
