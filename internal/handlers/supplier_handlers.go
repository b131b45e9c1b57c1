package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

// SupplierHandlers handles suppliers and supplier types
type SupplierHandlers struct {
	suppliers *services.SupplierService
	logger    *logging.SafeLogger
}

// NewSupplierHandlers creates a new supplier handlers instance
func NewSupplierHandlers(suppliers *services.SupplierService, logger *logging.SafeLogger) *SupplierHandlers {
	return &SupplierHandlers{suppliers: suppliers, logger: logger}
}

// List godoc
// @Summary Listar fornecedores
// @Tags Fornecedores
// @Produce json
// @Security BearerAuth
// @Param filtro query string false "Texto buscado em código, tipo, razão social, CNPJ e cidade"
// @Success 200 {array} models.Supplier
// @Failure 500 {object} ErrorResponse
// @Router /api/fornecedores [get]
func (h *SupplierHandlers) List(c *gin.Context) {
	suppliers, err := h.suppliers.List(c.Request.Context(), c.Query("filtro"))
	if err != nil {
		respondError(c, h.logger, "list suppliers", err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// NextCode godoc
// @Summary Próximo código de fornecedor
// @Tags Fornecedores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CodeResponse
// @Router /api/fornecedores/proximo-codigo [get]
func (h *SupplierHandlers) NextCode(c *gin.Context) {
	code, err := h.suppliers.NextCode(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "preview supplier code", err)
		return
	}
	c.JSON(http.StatusOK, CodeResponse{Codigo: code})
}

// Create godoc
// @Summary Criar fornecedor
// @Description Gera codigo_fornecedor FORN-0000000001 quando não enviado
// @Tags Fornecedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body models.Supplier true "Dados do fornecedor"
// @Success 201 {object} models.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/fornecedores [post]
func (h *SupplierHandlers) Create(c *gin.Context) {
	var supplier models.Supplier
	if !bindJSON(c, &supplier) {
		return
	}
	created, err := h.suppliers.Create(c.Request.Context(), &supplier)
	if err != nil {
		respondError(c, h.logger, "create supplier", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Atualizar fornecedor
// @Tags Fornecedores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do fornecedor"
// @Param supplier body models.Supplier true "Dados do fornecedor"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/fornecedores/{id} [put]
func (h *SupplierHandlers) Update(c *gin.Context) {
	var supplier models.Supplier
	if !bindJSON(c, &supplier) {
		return
	}
	updated, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), &supplier)
	if err != nil {
		respondError(c, h.logger, "update supplier", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListTypes godoc
// @Summary Listar tipos de fornecedor
// @Tags TipoFornecedor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SupplierType
// @Router /api/tipoFornecedor [get]
func (h *SupplierHandlers) ListTypes(c *gin.Context) {
	types, err := h.suppliers.ListTypes(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list supplier types", err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateType godoc
// @Summary Criar tipo de fornecedor
// @Tags TipoFornecedor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type body models.SupplierType true "Tipo"
// @Success 201 {object} models.SupplierType
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/tipoFornecedor [post]
func (h *SupplierHandlers) CreateType(c *gin.Context) {
	var supplierType models.SupplierType
	if !bindJSON(c, &supplierType) {
		return
	}
	created, err := h.suppliers.CreateType(c.Request.Context(), &supplierType)
	if err != nil {
		respondError(c, h.logger, "create supplier type", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateType godoc
// @Summary Renomear tipo de fornecedor
// @Tags TipoFornecedor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do tipo"
// @Param type body models.SupplierType true "Tipo"
// @Success 200 {object} models.SupplierType
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/tipoFornecedor/{id} [put]
func (h *SupplierHandlers) UpdateType(c *gin.Context) {
	var supplierType models.SupplierType
	if !bindJSON(c, &supplierType) {
		return
	}
	updated, err := h.suppliers.UpdateType(c.Request.Context(), c.Param("id"), &supplierType)
	if err != nil {
		respondError(c, h.logger, "update supplier type", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
