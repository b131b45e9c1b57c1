package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBatchWriter struct {
	mu      sync.Mutex
	entries []models.ActivityLog
	fail    bool
}

func (r *recordingBatchWriter) InsertBatch(_ context.Context, entries []models.ActivityLog) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return 0, errors.New("write failed")
	}
	r.entries = append(r.entries, entries...)
	return len(entries), nil
}

func (r *recordingBatchWriter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func TestActivityLogWorker_StopFlushesQueuedEntries(t *testing.T) {
	writer := &recordingBatchWriter{}
	worker := NewActivityLogWorker(writer, 2, 50, logging.Logger)

	for i := 0; i < 10; i++ {
		assert.True(t, worker.Enqueue(models.ActivityLog{Acao: "atualizar", Username: "rh"}))
	}
	worker.Stop()

	require.Equal(t, 10, writer.count())
	assert.Equal(t, "rh", writer.entries[0].Usuario)
	assert.True(t, writer.entries[0].DataHora.Valid())
}

func TestActivityLogWorker_FlushesOnTicker(t *testing.T) {
	writer := &recordingBatchWriter{}
	worker := NewActivityLogWorker(writer, 1, 10, logging.Logger)
	defer worker.Stop()

	worker.Enqueue(models.ActivityLog{Acao: "criar"})
	assert.Eventually(t, func() bool { return writer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestActivityLogWorker_RejectsAfterStopAndWithoutAction(t *testing.T) {
	writer := &recordingBatchWriter{}
	worker := NewActivityLogWorker(writer, 1, 10, logging.Logger)

	assert.False(t, worker.Enqueue(models.ActivityLog{}))
	worker.Stop()
	worker.Stop()
	assert.False(t, worker.Enqueue(models.ActivityLog{Acao: "criar"}))
	assert.Equal(t, 0, writer.count())
}

func TestActivityLogWorker_WriteFailureIsLogged(t *testing.T) {
	writer := &recordingBatchWriter{fail: true}
	worker := NewActivityLogWorker(writer, 1, 10, logging.Logger)
	worker.Enqueue(models.ActivityLog{Acao: "criar"})
	worker.Stop()
	assert.Equal(t, 0, writer.count())
}
