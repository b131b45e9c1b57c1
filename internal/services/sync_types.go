package services

import (
	"context"
	"time"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
)

// SyncRunner performs one synchronization run
type SyncRunner interface {
	Run(ctx context.Context) (*models.SyncReport, error)
}

// SyncSettings are the inputs of a synchronization run
type SyncSettings struct {
	RemoteURI string
	LocalURI  string
	Mode      string
	BatchSize int
	ExportDir string
	Timeout   time.Duration
}

// SyncSettingsFromConfig copies the synchronizer settings out of cfg
func SyncSettingsFromConfig(cfg *config.Config) SyncSettings {
	return SyncSettings{
		RemoteURI: cfg.SyncRemoteURI,
		LocalURI:  cfg.SyncLocalURI,
		Mode:      cfg.SyncMode,
		BatchSize: cfg.SyncBatchSize,
		ExportDir: cfg.SyncExportDir,
		Timeout:   cfg.SyncTimeout,
	}
}

// NewSyncRunner returns the synchronizer for settings.Mode
func NewSyncRunner(settings SyncSettings, connector SyncConnector, logger *logging.SafeLogger) SyncRunner {
	if settings.Mode == models.SyncModeWatermark {
		return NewWatermarkSyncService(settings, connector, logger)
	}
	return NewEmployeeSyncService(settings, connector, logger)
}

// SyncHook is called after a run that wrote at least one document
type SyncHook func(ctx context.Context, report *models.SyncReport)

// hookedRunner runs hooks after a successful write
type hookedRunner struct {
	runner SyncRunner
	hooks  []SyncHook
}

// WithSyncHooks wraps runner so hooks see every run that wrote documents
func WithSyncHooks(runner SyncRunner, hooks ...SyncHook) SyncRunner {
	return &hookedRunner{runner: runner, hooks: hooks}
}

func (h *hookedRunner) Run(ctx context.Context) (*models.SyncReport, error) {
	report, err := h.runner.Run(ctx)
	if report != nil && report.Written > 0 {
		for _, hook := range h.hooks {
			hook(ctx, report)
		}
	}
	return report, err
}
