package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/models"
)

// ActivityRecorder accepts entries without blocking the request
type ActivityRecorder interface {
	Enqueue(entry models.ActivityLog) bool
}

// paths whose writes are not recorded: the log endpoint itself and the login form
var activitySkipPrefixes = []string{"/api/logs", "/api/auth/login", "/metrics"}

// ActivityLogMiddleware records every successful write request in the activity log
func ActivityLogMiddleware(recorder ActivityRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range activitySkipPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		resource := resourceFromPath(path)
		entry := models.ActivityLog{
			Acao:      actionForMethod(method) + " " + resource,
			Recurso:   resource,
			RecursoID: resourceID(c, path),
			Metodo:    method,
			Rota:      path,
			Status:    status,
			IP:        c.ClientIP(),
		}
		if claims, ok := ClaimsFromContext(c); ok {
			entry.UserID = claims.ID
			entry.Username = claims.Username
		}
		recorder.Enqueue(entry)
	}
}

func actionForMethod(method string) string {
	switch method {
	case http.MethodPost:
		return "criou"
	case http.MethodDelete:
		return "removeu"
	default:
		return "editou"
	}
}

// resourceFromPath returns the first segment after /api ("/api/funcionarios/com-anexos/1" -> "funcionarios")
func resourceFromPath(path string) string {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api"), "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "desconhecido"
	}
	return parts[0]
}

func resourceID(c *gin.Context, path string) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api"), "/"), "/")
	if len(parts) > 1 && len(parts[len(parts)-1]) == 24 {
		return parts[len(parts)-1]
	}
	return ""
}
