package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/middleware"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"go.uber.org/zap"
)

// LoginErrorResponse keeps the message key the web client reads on login failures
type LoginErrorResponse struct {
	Message string `json:"message"`
}

// AuthHandlers handles login and menu visibility
type AuthHandlers struct {
	auth   *services.AuthService
	logger *logging.SafeLogger
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(auth *services.AuthService, logger *logging.SafeLogger) *AuthHandlers {
	return &AuthHandlers{auth: auth, logger: logger}
}

// Login godoc
// @Summary Autenticar usuário
// @Description Verifica usuário e senha e devolve um token válido por 24 horas
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Usuário e senha"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} LoginErrorResponse
// @Failure 401 {object} LoginErrorResponse
// @Failure 429 {object} LoginErrorResponse
// @Failure 500 {object} LoginErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LoginErrorResponse{Message: models.ErrMissingCredentials.Error()})
		return
	}

	response, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, LoginErrorResponse{Message: err.Error()})
		case errors.Is(err, models.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, LoginErrorResponse{Message: err.Error()})
		case errors.Is(err, models.ErrTooManyLoginAttempts):
			c.JSON(http.StatusTooManyRequests, LoginErrorResponse{Message: err.Error()})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, LoginErrorResponse{Message: "Erro interno no servidor"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Menus godoc
// @Summary Menus visíveis
// @Description Lista as áreas do menu ocultas e visíveis para o usuário do token (ou para ?role=&username= sem token)
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Param role query string false "Perfil, quando não há token"
// @Param username query string false "Usuário, quando não há token"
// @Success 200 {object} models.MenusResponse
// @Router /api/auth/menus [get]
func (h *AuthHandlers) Menus(c *gin.Context) {
	role := c.Query("role")
	username := c.Query("username")
	if claims, ok := middleware.ClaimsFromContext(c); ok {
		role = claims.Role
		username = claims.Username
	}

	c.JSON(http.StatusOK, models.MenusResponse{
		Role:       role,
		Restricted: models.RestrictedMenus(role, username),
		Visible:    models.VisibleMenus(role, username),
	})
}
