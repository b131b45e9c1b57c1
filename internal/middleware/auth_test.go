package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestAuth() *services.AuthService {
	return services.NewAuthService(nil, nil, "segredo-de-teste", time.Hour, logging.Logger)
}

func issueTestToken(t *testing.T, auth *services.AuthService, role string) string {
	t.Helper()
	token, err := auth.IssueToken(&models.User{ID: primitive.NewObjectID(), Username: "maria", Role: role})
	require.NoError(t, err)
	return token
}

func protectedRouter(auth TokenParser, required bool, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(AuthMiddleware(auth, required))
	handlers := append(extra, func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"username": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	router.GET("/test", handlers...)
	return router
}

func serve(router *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth := newTestAuth()
	valid := issueTestToken(t, auth, models.RoleRH)
	foreign, err := services.NewAuthService(nil, nil, "outro", time.Hour, logging.Logger).
		IssueToken(&models.User{ID: primitive.NewObjectID(), Username: "x"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		required      bool
		authorization string
		wantStatus    int
		wantBody      string
	}{
		{"valid token", true, "Bearer " + valid, http.StatusOK, `"username":"maria"`},
		{"lower-case scheme", true, "bearer " + valid, http.StatusOK, `"username":"maria"`},
		{"missing header when required", true, "", http.StatusUnauthorized, "Token não fornecido"},
		{"missing header when optional", false, "", http.StatusOK, `"username":""`},
		{"malformed header", true, "Token " + valid, http.StatusUnauthorized, "Formato de autorização inválido"},
		{"signed with another secret", true, "Bearer " + foreign, http.StatusUnauthorized, "token inválido"},
		{"invalid token when optional", false, "Bearer abc.def.ghi", http.StatusUnauthorized, "token inválido"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(protectedRouter(auth, tt.required), http.MethodGet, "/test", tt.authorization)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := newTestAuth()
	router := protectedRouter(auth, true, RequireRole(models.RoleRH))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", "Bearer "+issueTestToken(t, auth, models.RoleRH)).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/test", "Bearer "+issueTestToken(t, auth, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/test", "Bearer "+issueTestToken(t, auth, models.RoleComercial)).Code)

	anonymous := protectedRouter(auth, false, RequireRole(models.RoleRH))
	assert.Equal(t, http.StatusUnauthorized, serve(anonymous, http.MethodGet, "/test", "").Code)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
	_, ok = bearerToken("Basic dXNlcjpwYXNz")
	assert.False(t, ok)
}
