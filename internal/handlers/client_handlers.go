package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

// CodeResponse carries a preview of the next generated code
type CodeResponse struct {
	Codigo string `json:"codigo"`
}

// ClientHandlers handles the client registry
type ClientHandlers struct {
	clients *services.ClientService
	logger  *logging.SafeLogger
}

// NewClientHandlers creates a new client handlers instance
func NewClientHandlers(clients *services.ClientService, logger *logging.SafeLogger) *ClientHandlers {
	return &ClientHandlers{clients: clients, logger: logger}
}

// List godoc
// @Summary Listar clientes
// @Tags Clientes
// @Produce json
// @Security BearerAuth
// @Param filtro query string false "Texto buscado em código, nome, razão social, CNPJ, cidade e responsável"
// @Success 200 {array} models.Client
// @Failure 500 {object} ErrorResponse
// @Router /api/clientes [get]
func (h *ClientHandlers) List(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context(), c.Query("filtro"))
	if err != nil {
		respondError(c, h.logger, "list clients", err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// NextCode godoc
// @Summary Próximo código de cliente
// @Tags Clientes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CodeResponse
// @Router /api/clientes/proximo-codigo [get]
func (h *ClientHandlers) NextCode(c *gin.Context) {
	code, err := h.clients.NextCode(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "preview client code", err)
		return
	}
	c.JSON(http.StatusOK, CodeResponse{Codigo: code})
}

// Create godoc
// @Summary Criar cliente
// @Description Gera codigo_cliente CLI-0000000001 quando não enviado
// @Tags Clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body models.Client true "Dados do cliente"
// @Success 201 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/clientes [post]
func (h *ClientHandlers) Create(c *gin.Context) {
	var client models.Client
	if !bindJSON(c, &client) {
		return
	}
	created, err := h.clients.Create(c.Request.Context(), &client)
	if err != nil {
		respondError(c, h.logger, "create client", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Atualizar cliente
// @Tags Clientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do cliente"
// @Param client body models.Client true "Dados do cliente"
// @Success 200 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/clientes/{id} [put]
func (h *ClientHandlers) Update(c *gin.Context) {
	var client models.Client
	if !bindJSON(c, &client) {
		return
	}
	updated, err := h.clients.Update(c.Request.Context(), c.Param("id"), &client)
	if err != nil {
		respondError(c, h.logger, "update client", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
