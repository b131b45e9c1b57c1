package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// EmployeeHandlers handles the HR employee registry
type EmployeeHandlers struct {
	employees *services.EmployeeService
	maxMemory int64
	logger    *logging.SafeLogger
}

// NewEmployeeHandlers creates a new employee handlers instance; maxMemoryMB bounds
// the multipart parts held in memory before spilling to temporary files
func NewEmployeeHandlers(employees *services.EmployeeService, maxMemoryMB int, logger *logging.SafeLogger) *EmployeeHandlers {
	if maxMemoryMB <= 0 {
		maxMemoryMB = 32
	}
	return &EmployeeHandlers{employees: employees, maxMemory: int64(maxMemoryMB) << 20, logger: logger}
}

// List godoc
// @Summary Listar funcionários
// @Description Todos os funcionários ordenados por nome
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} object
// @Failure 500 {object} ErrorResponse
// @Router /api/funcionarios [get]
func (h *EmployeeHandlers) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list employees", err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Search godoc
// @Summary Buscar funcionários
// @Description Busca sem diferenciar maiúsculas em nome, cpf, telefone, email, município e situação
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Param busca query string false "Termo de busca"
// @Success 200 {array} object
// @Failure 500 {object} ErrorResponse
// @Router /api/funcionarios/filtro [get]
func (h *EmployeeHandlers) Search(c *gin.Context) {
	employees, err := h.employees.Search(c.Request.Context(), c.Query("busca"))
	if err != nil {
		respondError(c, h.logger, "search employees", err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Get godoc
// @Summary Obter funcionário
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/funcionarios/{id} [get]
func (h *EmployeeHandlers) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get employee", err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Create godoc
// @Summary Criar funcionário
// @Description Campos desconhecidos são gravados como vieram
// @Tags Funcionarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employee body object true "Dados do funcionário"
// @Success 201 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/funcionarios [post]
func (h *EmployeeHandlers) Create(c *gin.Context) {
	var input map[string]interface{}
	if !bindJSON(c, &input) {
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), input, nil)
	if err != nil {
		respondError(c, h.logger, "create employee", err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// Update godoc
// @Summary Atualizar funcionário
// @Description Altera apenas os campos enviados
// @Tags Funcionarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Param employee body object true "Campos alterados"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/funcionarios/{id} [put]
func (h *EmployeeHandlers) Update(c *gin.Context) {
	var input map[string]interface{}
	if !bindJSON(c, &input) {
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), input, nil)
	if err != nil {
		respondError(c, h.logger, "update employee", err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// CreateWithAttachments godoc
// @Summary Criar funcionário com anexos
// @Description Formulário multipart; anexos em cnh_arquivo, comprovante_residencia, nada_consta, comprovante_mei e curriculo
// @Tags Funcionarios
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/funcionarios/com-anexos [post]
func (h *EmployeeHandlers) CreateWithAttachments(c *gin.Context) {
	input, upload, ok := h.parseForm(c)
	if !ok {
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), input, upload)
	if err != nil {
		respondError(c, h.logger, "create employee with attachments", err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// UpdateWithAttachments godoc
// @Summary Atualizar funcionário com anexos
// @Description Um arquivo novo substitui o anterior do mesmo campo; arquivos mantidos vêm em <campo>_existente[]
// @Tags Funcionarios
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do funcionário"
// @Success 200 {object} object
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/funcionarios/com-anexos/{id} [put]
func (h *EmployeeHandlers) UpdateWithAttachments(c *gin.Context) {
	input, upload, ok := h.parseForm(c)
	if !ok {
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), input, upload)
	if err != nil {
		respondError(c, h.logger, "update employee with attachments", err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandlers) parseForm(c *gin.Context) (map[string]interface{}, *services.AttachmentUpload, bool) {
	if err := c.Request.ParseMultipartForm(h.maxMemory); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Formulário inválido: " + err.Error()})
		return nil, nil, false
	}
	input, upload := employeeFromForm(c.Request.MultipartForm)
	return input, upload, true
}

// SituacaoStats godoc
// @Summary Estatísticas por situação
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SituacaoCount
// @Failure 500 {object} ErrorResponse
// @Router /api/funcionarios/estatisticas/situacao [get]
func (h *EmployeeHandlers) SituacaoStats(c *gin.Context) {
	stats, err := h.employees.SituacaoStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to aggregate employee situations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao buscar estatísticas."})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetIdealProfileConfig godoc
// @Summary Obter critérios do perfil ideal
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.IdealProfileConfig
// @Failure 500 {object} ErrorResponse
// @Router /api/funcionarios/perfil-ideal-config [get]
func (h *EmployeeHandlers) GetIdealProfileConfig(c *gin.Context) {
	cfg, err := h.employees.GetIdealProfileConfig(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "get ideal profile config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// SaveIdealProfileConfig godoc
// @Summary Salvar critérios do perfil ideal
// @Description Também aceito em POST /api/funcionarios/perfil-ideal
// @Tags Funcionarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param config body models.IdealProfileConfig true "Critérios"
// @Success 200 {object} models.IdealProfileConfig
// @Failure 400 {object} ErrorResponse
// @Router /api/funcionarios/perfil-ideal-config [post]
func (h *EmployeeHandlers) SaveIdealProfileConfig(c *gin.Context) {
	var cfg models.IdealProfileConfig
	if !bindJSON(c, &cfg) {
		return
	}
	if err := h.employees.SaveIdealProfileConfig(c.Request.Context(), &cfg); err != nil {
		respondError(c, h.logger, "save ideal profile config", err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// IdealProfile godoc
// @Summary Funcionários no perfil ideal
// @Tags Funcionarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.IdealProfileMatch
// @Failure 500 {object} ErrorResponse
// @Router /api/funcionarios/perfil-ideal [get]
func (h *EmployeeHandlers) IdealProfile(c *gin.Context) {
	matches, err := h.employees.IdealProfile(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list ideal profile", err)
		return
	}
	c.JSON(http.StatusOK, matches)
}
