package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/middleware"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handlers-test-secret"

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s *stubUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, models.ErrUserNotFound
}

func newStubUsers(t *testing.T) *stubUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rh"), bcrypt.MinCost)
	require.NoError(t, err)
	return &stubUsers{users: map[string]*models.User{
		"rh": {
			ID:               primitive.NewObjectID(),
			Username:         "rh",
			Password:         string(hash),
			Role:             models.RoleRH,
			PermittedModules: []string{models.ModuleAll},
		},
	}}
}

func setupAuthRouter(users services.UserFinder) (*gin.Engine, *services.AuthService) {
	auth := services.NewAuthService(users, nil, testSecret, 24*time.Hour, logging.Logger)
	h := NewAuthHandlers(auth, logging.Logger)

	router := gin.New()
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/menus", middleware.AuthMiddleware(auth, false), h.Menus)
	return router, auth
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLogin(t *testing.T) {
	router, auth := setupAuthRouter(newStubUsers(t))

	w := postLogin(router, `{"username":"rh","password":"rh"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "rh", response.Usuario.Username)
	assert.Equal(t, models.RoleRH, response.Usuario.Role)

	claims, err := auth.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, "rh", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name           string
		users          *stubUsers
		body           string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "missing password",
			body:           `{"username":"rh"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    models.ErrMissingCredentials.Error(),
		},
		{
			name:           "malformed body",
			body:           `username=rh`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    models.ErrMissingCredentials.Error(),
		},
		{
			name:           "wrong password",
			body:           `{"username":"rh","password":"errada"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    models.ErrInvalidCredentials.Error(),
		},
		{
			name:           "unknown user",
			body:           `{"username":"ninguem","password":"rh"}`,
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    models.ErrInvalidCredentials.Error(),
		},
		{
			name:           "lookup failure",
			users:          &stubUsers{err: errors.New("mongo down")},
			body:           `{"username":"rh","password":"rh"}`,
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Erro interno no servidor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := tt.users
			if users == nil {
				users = newStubUsers(t)
			}
			router, _ := setupAuthRouter(users)

			w := postLogin(router, tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var response LoginErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedMsg, response.Message)
		})
	}
}

func getMenus(router *gin.Engine, target, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestMenus_FromToken(t *testing.T) {
	users := newStubUsers(t)
	router, auth := setupAuthRouter(users)
	token, err := auth.IssueToken(users.users["rh"])
	require.NoError(t, err)

	// the token wins over the query
	w := getMenus(router, "/api/auth/menus?role=admin", token)
	require.Equal(t, http.StatusOK, w.Code)

	var response models.MenusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, models.RoleRH, response.Role)
	assert.Equal(t, []string{models.MenuRH}, response.Visible)
	assert.NotContains(t, response.Restricted, models.MenuRH)
}

func TestMenus_FromQuery(t *testing.T) {
	router, _ := setupAuthRouter(newStubUsers(t))

	w := getMenus(router, "/api/auth/menus?role=admin", "")
	require.Equal(t, http.StatusOK, w.Code)

	var response models.MenusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Restricted)
	assert.Equal(t, models.AllMenus, response.Visible)
}

func TestMenus_InvalidToken(t *testing.T) {
	router, _ := setupAuthRouter(newStubUsers(t))

	w := getMenus(router, "/api/auth/menus", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
