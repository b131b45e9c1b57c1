package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"github.com/grupolocar/locar-api/internal/utils"
)

// PSLHandlers handles PSL occurrences
type PSLHandlers struct {
	psl    *services.PSLService
	logger *logging.SafeLogger
}

// NewPSLHandlers creates a new PSL handlers instance
func NewPSLHandlers(psl *services.PSLService, logger *logging.SafeLogger) *PSLHandlers {
	return &PSLHandlers{psl: psl, logger: logger}
}

// pslFilterFromQuery reads filial, ocorrencia, inicio and fim.
// A date-only fim covers the whole day.
func pslFilterFromQuery(c *gin.Context) (models.PSLFilter, []utils.ValidationError) {
	filter := models.PSLFilter{
		Filial:     strings.TrimSpace(c.Query("filial")),
		Ocorrencia: strings.TrimSpace(c.Query("ocorrencia")),
	}
	var problems []utils.ValidationError

	if raw := strings.TrimSpace(c.Query("inicio")); raw != "" {
		parsed, ok := utils.ParseFlexibleTime(raw)
		if !ok {
			problems = append(problems, utils.ValidationError{Field: "inicio", Message: "data inválida"})
		}
		filter.Inicio = parsed
	}
	if raw := strings.TrimSpace(c.Query("fim")); raw != "" {
		parsed, ok := utils.ParseFlexibleTime(raw)
		if !ok {
			problems = append(problems, utils.ValidationError{Field: "fim", Message: "data inválida"})
		} else if len(raw) == len("2006-01-02") {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		filter.Fim = parsed
	}
	return filter, problems
}

// List godoc
// @Summary Listar PSL
// @Tags PSL
// @Produce json
// @Security BearerAuth
// @Param filial query string false "Filial"
// @Param ocorrencia query string false "Ocorrência"
// @Param inicio query string false "Data inicial (YYYY-MM-DD)"
// @Param fim query string false "Data final (YYYY-MM-DD)"
// @Success 200 {array} models.PSL
// @Failure 400 {object} ErrorResponse
// @Router /api/psl [get]
func (h *PSLHandlers) List(c *gin.Context) {
	filter, problems := pslFilterFromQuery(c)
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Filtro inválido", Details: problems})
		return
	}
	records, err := h.psl.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list psl", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Create godoc
// @Summary Registrar PSL
// @Tags PSL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param psl body models.PSL true "Ocorrência"
// @Success 201 {object} models.PSL
// @Failure 400 {object} ErrorResponse
// @Router /api/psl [post]
func (h *PSLHandlers) Create(c *gin.Context) {
	var record models.PSL
	if !bindJSON(c, &record) {
		return
	}
	created, err := h.psl.Create(c.Request.Context(), &record)
	if err != nil {
		respondError(c, h.logger, "create psl", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Atualizar PSL
// @Tags PSL
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da ocorrência"
// @Param psl body models.PSL true "Ocorrência"
// @Success 200 {object} models.PSL
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/psl/{id} [put]
func (h *PSLHandlers) Update(c *gin.Context) {
	var record models.PSL
	if !bindJSON(c, &record) {
		return
	}
	updated, err := h.psl.Update(c.Request.Context(), c.Param("id"), &record)
	if err != nil {
		respondError(c, h.logger, "update psl", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
