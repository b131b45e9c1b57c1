package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// SyncHandlers triggers the employee synchronizer
type SyncHandlers struct {
	runner services.SyncRunner
	logger *logging.SafeLogger
}

// NewSyncHandlers creates a new sync handlers instance
func NewSyncHandlers(runner services.SyncRunner, logger *logging.SafeLogger) *SyncHandlers {
	return &SyncHandlers{runner: runner, logger: logger}
}

// SyncEmployees godoc
// @Summary Sincronizar funcionários
// @Description Copia para a base local os funcionários novos ou alterados no Atlas
// @Tags Sync
// @Produce json
// @Success 200 {object} models.SyncSuccessResponse
// @Failure 500 {object} models.SyncErrorResponse
// @Router /api/sync/sincronizar-funcionarios [post]
func (h *SyncHandlers) SyncEmployees(c *gin.Context) {
	// A client disconnect must not abort the run halfway through the upsert loop
	report, err := h.runner.Run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.logger.Error("employee synchronization failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.SyncErrorResponse{
			Error:   "Erro na sincronização.",
			Detalhe: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, models.SyncSuccessResponse{
		Message: "Sincronização finalizada com sucesso.",
		Report:  report,
	})
}
