// Package server exposes the question answering service over a JSON HTTP API
// and serves the static frontend.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/service"
)

// Server wraps the HTTP server with its dependencies.
type Server struct {
	http    *http.Server
	logger  *slog.Logger
	rag     *service.RAG
	metrics *metrics.Collector
}

// New creates the HTTP server. staticDir may be empty, in which case no
// frontend is served.
func New(port string, staticDir string, rag *service.RAG, collector *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger:  logger,
		rag:     rag,
		metrics: collector,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("GET /api/articles", s.handleArticles)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /health", s.handleHealth)
	if staticDir != "" {
		mux.Handle("/", noCache(http.FileServer(http.Dir(staticDir))))
	}

	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run starts serving and blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("starting HTTP server", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
