package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

// BranchHandlers handles client branches
type BranchHandlers struct {
	branches *services.BranchService
	logger   *logging.SafeLogger
}

// NewBranchHandlers creates a new branch handlers instance
func NewBranchHandlers(branches *services.BranchService, logger *logging.SafeLogger) *BranchHandlers {
	return &BranchHandlers{branches: branches, logger: logger}
}

// List godoc
// @Summary Listar filiais
// @Tags Filiais
// @Produce json
// @Security BearerAuth
// @Param filtro query string false "Texto buscado em cliente, filial, distrital, razão social, CNPJ e cidade"
// @Success 200 {array} models.Branch
// @Failure 500 {object} ErrorResponse
// @Router /api/filiais [get]
func (h *BranchHandlers) List(c *gin.Context) {
	branches, err := h.branches.List(c.Request.Context(), c.Query("filtro"))
	if err != nil {
		respondError(c, h.logger, "list branches", err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

// Create godoc
// @Summary Criar filial
// @Tags Filiais
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param branch body models.Branch true "Dados da filial"
// @Success 201 {object} models.Branch
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/filiais [post]
func (h *BranchHandlers) Create(c *gin.Context) {
	var branch models.Branch
	if !bindJSON(c, &branch) {
		return
	}
	created, err := h.branches.Create(c.Request.Context(), &branch)
	if err != nil {
		respondError(c, h.logger, "create branch", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Atualizar filial
// @Tags Filiais
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da filial"
// @Param branch body models.Branch true "Dados da filial"
// @Success 200 {object} models.Branch
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/filiais/{id} [put]
func (h *BranchHandlers) Update(c *gin.Context) {
	var branch models.Branch
	if !bindJSON(c, &branch) {
		return
	}
	updated, err := h.branches.Update(c.Request.Context(), c.Param("id"), &branch)
	if err != nil {
		respondError(c, h.logger, "update branch", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
