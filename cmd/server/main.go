package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brojonat/blinkd/service/action"
	"github.com/brojonat/blinkd/service/config"
	"github.com/brojonat/blinkd/service/ledger"
	"github.com/brojonat/blinkd/service/metrics"
	"github.com/brojonat/blinkd/service/nats"
	"github.com/brojonat/blinkd/service/server"
)

func main() {
	// Load and validate configuration from environment
	// This fails fast if any required config is missing or invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"network", cfg.SolanaNetwork,
		"log_level", cfg.LogLevel,
	)

	// Initialize metrics
	m := metrics.NewMetrics(nil)

	// Initialize the ledger client against the configured network
	// Note: For premium RPC endpoints, include the API key in the URL
	rpcClient := ledger.NewRPCClient(cfg.RPCURL())
	ledgerClient := ledger.NewClient(rpcClient, cfg.SolanaNetwork, m, logger)
	logger.Info("initialized solana RPC client", "url", cfg.RPCURL())

	// Initialize NATS publisher (optional)
	var publisher nats.Publisher
	if cfg.NATSURL != "" {
		p, err := nats.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("NATS_URL not set, event publishing disabled")
	}

	// Initialize the transfer pipeline and HTTP server
	builder := action.NewBuilder(ledgerClient, cfg.SolanaNetwork, publisher, m, logger)
	httpServer := server.New(cfg.ServerAddr, cfg, builder, m, logger)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
