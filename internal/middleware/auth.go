package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key holding the caller's *models.AuthClaims
const ClaimsKey = "claims"

// TokenParser validates a bearer token and returns its claims
type TokenParser interface {
	ParseToken(token string) (*models.AuthClaims, error)
}

// AuthMiddleware validates the bearer token of the request and stores its claims.
// When required is false, requests without a token pass through anonymously,
// but a token that is present must still be valid.
func AuthMiddleware(parser TokenParser, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
				return
			}
			c.Next()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Formato de autorização inválido"})
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			observability.Logger().Debug("rejected bearer token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidToken.Error()})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*models.AuthClaims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.AuthClaims)
	return claims, ok && claims != nil
}

// RequireRole allows admins and the listed roles. It needs AuthMiddleware in front.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token não fornecido"})
			return
		}
		if claims.Role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if strings.EqualFold(claims.Role, role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso negado"})
	}
}
