package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/observability"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// Runs the employee synchronizer once, or every SYNC_INTERVAL until interrupted.
func main() {
	os.Exit(run())
}

// run returns the exit code so deferred shutdowns flush spans and logs first
func run() int {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig
	logger := logging.Logger.Named("sync")

	observability.InitTracer("locar-sync")
	defer observability.ShutdownTracer()

	// Redis only backs the statistics cache the hook clears
	config.InitRedis()
	cache := services.NewCacheService(config.Redis, logger)

	runner := services.WithSyncHooks(
		services.NewSyncRunner(services.SyncSettingsFromConfig(cfg), services.NewMongoSyncConnector(cfg), logger),
		cache.SyncHook(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	if cfg.SyncInterval <= 0 {
		logger.Info("starting one-shot employee synchronization", zap.String("mode", cfg.SyncMode))
		report, err := runner.Run(ctx)
		if err != nil {
			logger.Error("employee synchronization failed", zap.Error(err))
			return 1
		}
		logger.Info("employee synchronization finished",
			zap.Int("remote", report.RemoteCount),
			zap.Int("pending", report.Pending),
			zap.Int("inserted", report.Inserted),
			zap.Int("updated", report.Updated),
			zap.Bool("already_synchronized", report.AlreadySynchronized),
			zap.Duration("duration", report.Duration()))
		return 0
	}

	worker := services.NewSyncWorker(runner, cfg.SyncInterval, logger)
	go worker.Start(ctx)

	<-ctx.Done()
	logger.Info("shutdown signal received")
	worker.Stop()
	logger.Info("sync service stopped")
	return 0
}
