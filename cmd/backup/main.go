package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// Exports every collection of the local database and mirrors the uploads directory.
func main() {
	os.Exit(run())
}

func run() int {
	skipFiles := flag.Bool("skip-files", false, "only export the collections")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig
	logger := logging.Logger
	defer func() { _ = logger.Sync() }()

	config.InitMongoDB()
	defer config.MongoDB.Client().Disconnect(context.Background())

	backup := services.NewBackupService(config.MongoDB, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := backup.ExportCollections(ctx, cfg.BackupDir)
	if err != nil {
		logger.Error("collection export failed", zap.Error(err))
		return 1
	}

	if !*skipFiles {
		copied, err := backup.CopyNewFiles(cfg.UploadsDir, filepath.Join(cfg.BackupDir, "uploads"))
		if err != nil {
			logger.Error("uploads mirror failed", zap.Error(err))
			return 1
		}
		report.CopiedFiles = copied
	}

	logger.Info("backup finished",
		zap.String("dir", report.Dir),
		zap.Int("collections", len(report.Collections)),
		zap.Int("copied_files", report.CopiedFiles))
	return 0
}
