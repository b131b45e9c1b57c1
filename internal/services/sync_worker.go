package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"go.uber.org/zap"
)

// SyncWorker triggers synchronization runs on a fixed interval
type SyncWorker struct {
	runner   SyncRunner
	interval time.Duration
	logger   *logging.SafeLogger
	stopChan chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// NewSyncWorker creates a worker that runs runner every interval
func NewSyncWorker(runner SyncRunner, interval time.Duration, logger *logging.SafeLogger) *SyncWorker {
	return &SyncWorker{
		runner:   runner,
		interval: interval,
		logger:   logger.Named("sync_worker"),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs once immediately and then on every tick until Stop is called or ctx ends.
// It blocks; call it in its own goroutine.
func (w *SyncWorker) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	defer close(w.done)
	w.logger.Info("sync worker started", zap.Duration("interval", w.interval))

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("sync worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("sync worker stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the worker and waits for the current run to finish
func (w *SyncWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })
	if w.started.Load() {
		<-w.done
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	report, err := w.runner.Run(ctx)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if report != nil {
			fields = append(fields, zap.Int("written", report.Written), zap.Int("pending", report.Pending))
		}
		w.logger.Error("scheduled synchronization failed", fields...)
		return
	}
	w.logger.Info("scheduled synchronization finished",
		zap.String("mode", report.Mode),
		zap.Int("written", report.Written),
		zap.Bool("already_synchronized", report.AlreadySynchronized))
}

// RunInBackground fires a single run without waiting for it; the outcome only reaches the logs
func RunInBackground(ctx context.Context, runner SyncRunner, logger *logging.SafeLogger) {
	go func() {
		report, err := runner.Run(ctx)
		if err != nil {
			logger.Error("startup synchronization failed", zap.Error(err))
			return
		}
		logger.Info("startup synchronization finished",
			zap.Int("written", report.Written),
			zap.Bool("already_synchronized", report.AlreadySynchronized))
	}()
}
