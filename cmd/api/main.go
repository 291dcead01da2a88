package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voxlane/voxlane-platform/internal/api/router"
	"github.com/voxlane/voxlane-platform/internal/app/bootstrap"
	"github.com/voxlane/voxlane-platform/internal/assign"
	"github.com/voxlane/voxlane-platform/internal/calls"
	appconfig "github.com/voxlane/voxlane-platform/internal/config"
	"github.com/voxlane/voxlane-platform/internal/notify"
	"github.com/voxlane/voxlane-platform/internal/sweep"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voxlane API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required", "addr", cfg.RedisAddr)
		os.Exit(1)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := calls.NewStore(redisClient)
	resolver := assign.NewResolver(assign.DefaultProfiles())
	notifier, feed := bootstrap.BuildNotifier(cfg, redisClient, registry, logger)

	sweeper := sweep.NewService(store, notifier, logger, sweep.NewMetrics(registry), bootstrap.SweepConfig(cfg))
	go sweeper.Run(ctx)

	callsHandler := calls.NewHandler(store, resolver, sweeper, logger)
	noticesHandler := notify.NewHandler(feed, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		CallsHandler:       callsHandler,
		NoticesHandler:     noticesHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SubmitRate:         2,
		SubmitBurst:        5,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
