// Package server exposes a gravec database over HTTP. Routes mirror the
// embedded API one to one: node and edge CRUD, the three search modes
// with their detailed variants, text-file ingestion, and admin
// operations, plus Prometheus metrics on /metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liliang-cn/gravec/pkg/gravec"
)

// Server holds the HTTP interface and the underlying database.
type Server struct {
	db     *gravec.DB
	logger *slog.Logger

	httpServer *http.Server
}

// New wires the routes and middleware chain around an opened database.
// The caller keeps ownership of the database and closes it after
// Shutdown returns.
func New(db *gravec.DB, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		db:     db,
		logger: logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// Recovery is outermost so it also catches panics in the other
	// middleware.
	var handler http.Handler = mux
	handler = s.LoggingMiddleware(handler)
	handler = s.RequestIDMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /nodes", s.handleCreateNode)
	mux.HandleFunc("GET /nodes/{id}", s.handleGetNode)
	mux.HandleFunc("PUT /nodes/{id}", s.handleUpdateNode)
	mux.HandleFunc("DELETE /nodes/{id}", s.handleDeleteNode)

	mux.HandleFunc("POST /edges", s.handleCreateEdge)
	mux.HandleFunc("GET /edges/{id}", s.handleGetEdge)
	mux.HandleFunc("DELETE /edges/{id}", s.handleDeleteEdge)

	mux.HandleFunc("POST /search/vector", s.handleVectorSearch)
	mux.HandleFunc("POST /search/vector/detailed", s.handleVectorSearchDetailed)
	mux.HandleFunc("GET /search/graph", s.handleGraphSearch)
	mux.HandleFunc("GET /search/graph/detailed", s.handleGraphSearchDetailed)
	mux.HandleFunc("POST /search/hybrid", s.handleHybridSearch)
	mux.HandleFunc("POST /search/hybrid/detailed", s.handleHybridSearchDetailed)

	mux.HandleFunc("POST /ingest/text-file", s.handleIngestTextFile)

	mux.HandleFunc("POST /admin/clear", s.handleClear)
	mux.HandleFunc("POST /admin/refit", s.handleRefit)
}

// Handler returns the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server startup failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests. The database is closed by the
// caller afterwards so the final snapshot write happens once.
func (s *Server) Shutdown() {
	s.logger.Info("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("http server shutdown error", "error", err)
	}
}
