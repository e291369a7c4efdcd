package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/polysnap/polysnap/internal/server/handler"
	"github.com/polysnap/polysnap/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr        string
	CORSOrigins []string
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health   *handler.HealthHandler
	Analyze  *handler.AnalyzeHandler
	Trending *handler.TrendingHandler
	Whales   *handler.WhaleHandler
	ROI      *handler.ROIHandler
}

// Server is the HTTP API server for the analysis backend.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux
// and the logging and CORS middleware applied.
func NewServer(cfg Config, handlers Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Analysis job endpoints.
	mux.HandleFunc("POST /api/analyze", handlers.Analyze.StartAnalysis)
	mux.HandleFunc("GET /api/analyze/status/{id}", handlers.Analyze.JobStatus)
	mux.HandleFunc("GET /api/analyze/result/{id}", handlers.Analyze.JobResult)

	// Discovery endpoints.
	mux.HandleFunc("GET /api/trending", handlers.Trending.Trending)
	mux.HandleFunc("GET /api/stats", handlers.Trending.Stats)
	mux.HandleFunc("GET /api/whales", handlers.Whales.Whales)
	mux.HandleFunc("GET /api/trades", handlers.Whales.Trades)

	// Calculator endpoint.
	mux.HandleFunc("POST /api/roi", handlers.ROI.Scenario)

	var h http.Handler = mux
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
