package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	report *models.SyncReport
	err    error
	calls  int
	ctxErr error
}

func (r *stubRunner) Run(ctx context.Context) (*models.SyncReport, error) {
	r.calls++
	r.ctxErr = ctx.Err()
	if r.ctxErr != nil {
		return nil, r.ctxErr
	}
	return r.report, r.err
}

func triggerSync(runner *stubRunner) *httptest.ResponseRecorder {
	return triggerSyncWithContext(context.Background(), runner)
}

func triggerSyncWithContext(ctx context.Context, runner *stubRunner) *httptest.ResponseRecorder {
	h := NewSyncHandlers(runner, logging.Logger)
	router := gin.New()
	router.POST("/api/sync/sincronizar-funcionarios", h.SyncEmployees)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync/sincronizar-funcionarios", nil).WithContext(ctx)
	router.ServeHTTP(w, req)
	return w
}

func TestSyncEmployees_Success(t *testing.T) {
	runner := &stubRunner{report: &models.SyncReport{Mode: models.SyncModeCPF, Pending: 2, Written: 2}}

	w := triggerSync(runner)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)

	var response models.SyncSuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Sincronização finalizada com sucesso.", response.Message)
	require.NotNil(t, response.Report)
	assert.Equal(t, 2, response.Report.Written)
}

func TestSyncEmployees_Failure(t *testing.T) {
	runner := &stubRunner{err: errors.New("failed to connect remote: server selection timeout")}

	w := triggerSync(runner)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var response models.SyncErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Erro na sincronização.", response.Error)
	assert.Equal(t, "failed to connect remote: server selection timeout", response.Detalhe)
}

func TestSyncEmployees_ClientDisconnectDoesNotCancelRun(t *testing.T) {
	runner := &stubRunner{report: &models.SyncReport{Mode: models.SyncModeCPF, Pending: 1, Written: 1}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := triggerSyncWithContext(ctx, runner)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, runner.calls)
	assert.NoError(t, runner.ctxErr)
}
