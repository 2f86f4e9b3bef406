package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvalim/papermill/internal/config"
	"github.com/dvalim/papermill/internal/convert"
	"github.com/dvalim/papermill/internal/handler"
	"github.com/dvalim/papermill/internal/pattern"
	"github.com/dvalim/papermill/internal/scheduler"
	"github.com/dvalim/papermill/internal/service"
	"github.com/dvalim/papermill/internal/store"
	"github.com/dvalim/papermill/internal/worker"
	"github.com/dvalim/papermill/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Papermill", "version", version)

	// Core state: the status store is the single owner of all job records,
	// the pool is the only writer besides registration.
	jobStore := store.NewStore()
	converter := convert.NewCommandConverter(cfg.ConverterCommand)
	pool := worker.NewPool(cfg.WorkerCount, cfg.JobQueueSize, cfg.ConvertTimeout, jobStore, converter)
	pool.Start()

	expander := pattern.NewExpander(cfg.SupportedExtensions)
	coordinator := service.NewCoordinator(expander, jobStore, pool)

	// Retention sweeper
	var sweeper *scheduler.Sweeper
	if cfg.SweeperEnabled {
		sweeper = scheduler.NewSweeper(jobStore, cfg.SweeperSchedule, cfg.RetentionTTL)
		if err := sweeper.Start(); err != nil {
			slog.Error("Failed to start retention sweeper", "error", err)
			os.Exit(1)
		}
	}

	// Initialize handlers
	convertHandler := handler.NewConvertHandler(coordinator)
	statusHandler := handler.NewStatusHandler(coordinator)
	healthHandler := handler.NewHealthHandler(pool, version)

	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	router := handler.NewRouter(convertHandler, statusHandler, healthHandler, corsConfig)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting requests first, then drain the pool.
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if sweeper != nil {
		sweeper.Stop()
	}

	slog.Info("Draining worker pool...")
	pool.Stop()

	slog.Info("Papermill stopped")
}
