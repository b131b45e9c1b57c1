package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/utils"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []utils.ValidationError `json:"details,omitempty"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

const internalErrorMessage = "Erro interno do servidor"

// statusFor maps domain errors to HTTP statuses; zero means unexpected
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrMissingCredentials),
		errors.Is(err, models.ErrWeakPassword),
		errors.Is(err, models.ErrUnknownAttachment):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrEmployeeNotFound),
		errors.Is(err, models.ErrClientNotFound),
		errors.Is(err, models.ErrSupplierNotFound),
		errors.Is(err, models.ErrSupplierTypeNotFound),
		errors.Is(err, models.ErrBranchNotFound),
		errors.Is(err, models.ErrPSLNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateCPF),
		errors.Is(err, models.ErrDuplicateCNPJ),
		errors.Is(err, models.ErrDuplicateUsername),
		errors.Is(err, models.ErrDuplicateBranch),
		errors.Is(err, models.ErrDuplicateSupplierType),
		errors.Is(err, models.ErrDuplicateSupplierCode):
		return http.StatusConflict
	case errors.Is(err, models.ErrTooManyLoginAttempts):
		return http.StatusTooManyRequests
	default:
		return 0
	}
}

// respondError writes the error answer for err, logging unexpected failures
func respondError(c *gin.Context, logger *logging.SafeLogger, operation string, err error) {
	status := statusFor(err)
	if status == 0 {
		logger.Error("failed to "+operation, zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	response := ErrorResponse{Error: err.Error()}
	var failure *models.ValidationFailure
	if errors.As(err, &failure) {
		response.Error = models.ErrValidation.Error()
		response.Details = failure.Fields
	}
	c.JSON(status, response)
}

// bindJSON decodes the body into out, answering 400 on malformed input
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Dados inválidos: " + err.Error()})
		return false
	}
	return true
}
