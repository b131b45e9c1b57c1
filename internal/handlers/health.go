package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/redisclient"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RootMessage is the plain-text answer of GET /
const RootMessage = "API GrupoLocar está funcionando"

// HealthResponse reports the state of the backing services
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthHandlers answers liveness probes
type HealthHandlers struct {
	database *mongo.Database
	redis    *redisclient.Client
	logger   *logging.SafeLogger
}

// NewHealthHandlers creates the health handlers; redis may be nil
func NewHealthHandlers(database *mongo.Database, redis *redisclient.Client, logger *logging.SafeLogger) *HealthHandlers {
	return &HealthHandlers{database: database, redis: redis, logger: logger}
}

// Root godoc
// @Summary Verificar API
// @Description Confirma que a API está no ar
// @Tags Health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *HealthHandlers) Root(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

// Health godoc
// @Summary Verificar saúde da API
// @Description Verifica a conexão com MongoDB e Redis. Redis fora do ar degrada, mas não derruba a API.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health [get]
func (h *HealthHandlers) Health(c *gin.Context) {
	ctx, span := otel.Tracer("").Start(c.Request.Context(), "HealthCheck")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services:  make(map[string]string),
	}

	if h.database == nil {
		health.Status = "unhealthy"
		health.Services["mongodb"] = "not configured"
	} else if err := h.database.Client().Ping(ctx, nil); err != nil {
		h.logger.Error("MongoDB health check failed", zap.Error(err))
		health.Status = "unhealthy"
		health.Services["mongodb"] = "unhealthy"
	} else {
		health.Services["mongodb"] = "healthy"
	}

	switch {
	case h.redis == nil:
		health.Services["redis"] = "disabled"
	case h.redis.Ping(ctx).Err() != nil:
		health.Services["redis"] = "unhealthy"
		if health.Status == "healthy" {
			health.Status = "degraded"
		}
	default:
		health.Services["redis"] = "healthy"
	}

	span.SetAttributes(attribute.String("health.status", health.Status))

	if health.Status == "unhealthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada"})
}
