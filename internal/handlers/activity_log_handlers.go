package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/middleware"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

// ActivityLogHandlers serves the activity log
type ActivityLogHandlers struct {
	logs   *services.ActivityLogService
	logger *logging.SafeLogger
}

// NewActivityLogHandlers creates a new activity log handlers instance
func NewActivityLogHandlers(logs *services.ActivityLogService, logger *logging.SafeLogger) *ActivityLogHandlers {
	return &ActivityLogHandlers{logs: logs, logger: logger}
}

// Latest godoc
// @Summary Últimos registros de atividade
// @Description Retorna os 200 registros mais recentes
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ActivityLog
// @Router /api/logs [get]
func (h *ActivityLogHandlers) Latest(c *gin.Context) {
	entries, err := h.logs.Latest(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list activity logs", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Record godoc
// @Summary Registrar atividade
// @Tags Logs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body models.ActivityLog true "Registro"
// @Success 201 {object} models.ActivityLog
// @Failure 400 {object} ErrorResponse
// @Router /api/logs [post]
func (h *ActivityLogHandlers) Record(c *gin.Context) {
	var entry models.ActivityLog
	if !bindJSON(c, &entry) {
		return
	}
	if entry.UserID == "" && entry.Username == "" && entry.Usuario == "" {
		if claims, ok := middleware.ClaimsFromContext(c); ok {
			entry.UserID = claims.ID
			entry.Username = claims.Username
		}
	}
	created, err := h.logs.Record(c.Request.Context(), &entry)
	if err != nil {
		respondError(c, h.logger, "record activity log", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
