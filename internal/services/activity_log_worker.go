package services

import (
	"context"
	"sync"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"go.uber.org/zap"
)

// ActivityBatchWriter persists a batch of activity entries
type ActivityBatchWriter interface {
	InsertBatch(ctx context.Context, entries []models.ActivityLog) (int, error)
}

const (
	activityBatchSize     = 100
	activityFlushInterval = 100 * time.Millisecond
	activityWriteTimeout  = 5 * time.Second
)

// ActivityLogWorker records activity entries asynchronously in batches
type ActivityLogWorker struct {
	entries chan models.ActivityLog
	writer  ActivityBatchWriter
	workers int
	logger  *logging.SafeLogger
	now     func() time.Time

	wg       sync.WaitGroup
	stopOnce sync.Once
	mu       sync.RWMutex
	stopped  bool
}

// NewActivityLogWorker starts workers goroutines draining a buffer of bufferSize entries
func NewActivityLogWorker(writer ActivityBatchWriter, workers, bufferSize int, logger *logging.SafeLogger) *ActivityLogWorker {
	if workers < 1 {
		workers = 1
	}
	w := &ActivityLogWorker{
		entries: make(chan models.ActivityLog, bufferSize),
		writer:  writer,
		workers: workers,
		logger:  logger.Named("activity_log_worker"),
		now:     time.Now,
	}

	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer w.wg.Done()
			w.process()
		}()
	}

	w.logger.Info("activity log worker started",
		zap.Int("workers", workers),
		zap.Int("buffer_size", bufferSize))
	return w
}

// Enqueue normalizes entry and queues it. It never blocks: when the buffer is full
// or the worker stopped, the entry is dropped and false is returned.
func (w *ActivityLogWorker) Enqueue(entry models.ActivityLog) bool {
	entry.Normalize(w.now())
	if entry.Acao == "" {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return false
	}

	select {
	case w.entries <- entry:
		return true
	default:
		w.logger.Warn("activity log buffer full, dropping entry",
			zap.String("acao", entry.Acao),
			zap.String("rota", entry.Rota))
		return false
	}
}

func (w *ActivityLogWorker) process() {
	ticker := time.NewTicker(activityFlushInterval)
	defer ticker.Stop()

	batch := make([]models.ActivityLog, 0, activityBatchSize)
	for {
		select {
		case entry, ok := <-w.entries:
			if !ok {
				w.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= activityBatchSize {
				w.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (w *ActivityLogWorker) flush(batch []models.ActivityLog) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), activityWriteTimeout)
	defer cancel()

	inserted, err := w.writer.InsertBatch(ctx, append([]models.ActivityLog(nil), batch...))
	if err != nil {
		w.logger.Error("failed to insert activity batch",
			zap.Int("batch_size", len(batch)),
			zap.Int("inserted", inserted),
			zap.Error(err))
		return
	}
	w.logger.Debug("activity batch inserted", zap.Int("inserted", inserted))
}

// Stop flushes the queued entries and waits for the workers
func (w *ActivityLogWorker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.entries)
		w.mu.Unlock()
		w.wg.Wait()
	})
}
