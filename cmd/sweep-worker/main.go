// Headless sweep runner for deployments that keep the API server and the
// scheduling sweep in separate processes. Only one sweeper should own a
// given Redis keyspace at a time.
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

	"github.com/voxlane/voxlane-platform/internal/app/bootstrap"
	"github.com/voxlane/voxlane-platform/internal/calls"
	appconfig "github.com/voxlane/voxlane-platform/internal/config"
	"github.com/voxlane/voxlane-platform/internal/sweep"
	"github.com/voxlane/voxlane-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting voxlane sweep worker",
		"env", cfg.Env,
		"interval", cfg.SweepInterval.String(),
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
	notifier, _ := bootstrap.BuildNotifier(cfg, redisClient, registry, logger)
	sweeper := sweep.NewService(store, notifier, logger, sweep.NewMetrics(registry), bootstrap.SweepConfig(cfg))

	// Metrics-only HTTP listener.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	sweeper.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info("sweep worker exited")
}
