package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/brojonat/blinkd/service/action"
	"github.com/brojonat/blinkd/service/config"
	"github.com/brojonat/blinkd/service/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActionPath is the single endpoint path serving the transfer action.
const ActionPath = "/api/actions/transfer-sol"

// Server represents the HTTP server for the action service.
type Server struct {
	addr    string
	cfg     *config.Config
	builder *action.Builder
	metrics *metrics.Metrics
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new HTTP server with the given dependencies.
// The builder performs the validation and transaction-construction pipeline.
// The metrics is optional - if nil, the metrics endpoint won't be available.
func New(addr string, cfg *config.Config, builder *action.Builder, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		addr:    addr,
		cfg:     cfg,
		builder: builder,
		metrics: m,
		logger:  logger,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	md := action.Metadata{
		Title:       s.cfg.ActionTitle,
		Description: s.cfg.ActionDescription,
		Label:       s.cfg.ActionLabel,
		IconURL:     s.cfg.ActionIconURL,
	}

	// Action routes. OPTIONS preflight is answered by the CORS middleware.
	actionMetrics := metrics.HTTPMetricsMiddleware(s.metrics, ActionPath)
	mux.Handle("GET "+ActionPath, actionMetrics(handleGetAction(md, s.logger)))
	mux.Handle("POST "+ActionPath, actionMetrics(handlePostTransfer(s.builder, s.metrics, s.logger)))

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint (if metrics collector is configured)
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.Handler())
		s.logger.Info("Prometheus metrics endpoint enabled")
	}

	// Outermost boundary: recover from unexpected faults, then CORS.
	handler := corsMiddleware(recoverMiddleware(s.logger, mux))

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.RequestTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", s.addr, "action_path", ActionPath)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds the action CORS headers to all responses and handles
// OPTIONS preflight requests. Action-aware clients require these headers on
// every response, including errors.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Encoding, Accept-Encoding")
		w.Header().Set("Access-Control-Max-Age", "3600")

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware catches panics from handlers, logs them server-side, and
// returns an opaque 500. No internal detail reaches the caller.
func recoverMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic while serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeActionError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
