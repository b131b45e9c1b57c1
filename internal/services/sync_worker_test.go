package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingRunner struct {
	runs atomic.Int32
	err  error
}

func (r *countingRunner) Run(ctx context.Context) (*models.SyncReport, error) {
	r.runs.Add(1)
	return &models.SyncReport{Mode: models.SyncModeCPF}, r.err
}

func TestSyncWorker_RunsImmediatelyAndOnTicks(t *testing.T) {
	runner := &countingRunner{}
	worker := NewSyncWorker(runner, 10*time.Millisecond, logging.NewSafeLogger(zap.NewNop()))

	go worker.Start(context.Background())

	assert.Eventually(t, func() bool { return runner.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	worker.Stop()

	stopped := runner.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runner.runs.Load(), "no runs after Stop returns")
}

func TestSyncWorker_StopsOnContextCancel(t *testing.T) {
	runner := &countingRunner{err: assert.AnError}
	worker := NewSyncWorker(runner, time.Hour, logging.NewSafeLogger(zap.NewNop()))

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(finished)
	}()

	assert.Eventually(t, func() bool { return runner.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	worker.Stop()
}

func TestSyncWorker_StopWithoutStart(t *testing.T) {
	worker := NewSyncWorker(&countingRunner{}, time.Second, logging.NewSafeLogger(zap.NewNop()))
	done := make(chan struct{})
	go func() {
		worker.Stop()
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a worker that never started")
	}
}

func TestRunInBackground(t *testing.T) {
	runner := &countingRunner{}
	RunInBackground(context.Background(), runner, logging.NewSafeLogger(zap.NewNop()))
	assert.Eventually(t, func() bool { return runner.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}
