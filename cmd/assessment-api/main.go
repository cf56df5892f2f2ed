// cmd/assessment-api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mortgage-risk-workers/internal/api"
	"mortgage-risk-workers/internal/common/config"
	"mortgage-risk-workers/internal/common/logger"
	"mortgage-risk-workers/internal/common/observability"
)

func main() {
	zapLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger at the configured level once config is available
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assessment API...")

	obs := observability.New("assessment-api")
	defer obs.Shutdown()

	var tracing *observability.Tracing
	if cfg.Tracing.Enabled {
		tracing, err = observability.NewTracing("assessment-api", cfg.Tracing.JaegerEndpoint)
		if err != nil {
			zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
			tracing = nil
		} else {
			defer tracing.Shutdown()
		}
	}

	server := api.NewServer(cfg, log, tracing)

	go func() {
		zapLog.Info("Assessment API listening", zap.Int("port", cfg.API.Port))
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("assessment API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping assessment API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down assessment API", zap.Error(err))
	}

	zapLog.Info("Assessment API stopped gracefully")
}
