package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
)

// UserHandlers handles user management
type UserHandlers struct {
	users  *services.UserService
	logger *logging.SafeLogger
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(users *services.UserService, logger *logging.SafeLogger) *UserHandlers {
	return &UserHandlers{users: users, logger: logger}
}

// List godoc
// @Summary Listar usuários
// @Tags Usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse
// @Router /api/usuarios [get]
func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create godoc
// @Summary Criar usuário
// @Description A senha é gravada com bcrypt e nunca é devolvida
// @Tags Usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body models.UserInput true "Dados do usuário"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/usuarios [post]
func (h *UserHandlers) Create(c *gin.Context) {
	var input models.UserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.users.Create(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Atualizar usuário
// @Description A senha só é alterada quando enviada
// @Tags Usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param user body models.UserInput true "Dados do usuário"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/usuarios/{id} [put]
func (h *UserHandlers) Update(c *gin.Context) {
	var input models.UserInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, h.logger, "update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword godoc
// @Summary Alterar senha
// @Tags Usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Param password body models.PasswordInput true "Nova senha"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/usuarios/{id}/senha [put]
func (h *UserHandlers) SetPassword(c *gin.Context) {
	var input models.PasswordInput
	if !bindJSON(c, &input) {
		return
	}
	if err := h.users.SetPassword(c.Request.Context(), c.Param("id"), input.Password); err != nil {
		respondError(c, h.logger, "set password", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Senha alterada com sucesso."})
}
