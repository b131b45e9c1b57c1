package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRecorder struct {
	mu      sync.Mutex
	entries []models.ActivityLog
}

func (r *recordingRecorder) Enqueue(entry models.ActivityLog) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return true
}

func activityRouter(recorder ActivityRecorder) *gin.Engine {
	router := gin.New()
	router.Use(ActivityLogMiddleware(recorder))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) }
	router.GET("/api/clientes", ok)
	router.POST("/api/clientes", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	router.PUT("/api/funcionarios/com-anexos/:id", ok)
	router.PUT("/api/filiais/:id", func(c *gin.Context) { c.JSON(http.StatusConflict, gin.H{}) })
	router.POST("/api/logs", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	router.POST("/api/auth/login", ok)
	return router
}

func TestActivityLogMiddleware_RecordsSuccessfulWrites(t *testing.T) {
	recorder := &recordingRecorder{}
	router := activityRouter(recorder)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/clientes", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/funcionarios/com-anexos/65a1b2c3d4e5f60718293a4b", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, recorder.entries, 2)
	assert.Equal(t, "criou clientes", recorder.entries[0].Acao)
	assert.Equal(t, "clientes", recorder.entries[0].Recurso)
	assert.Equal(t, http.StatusCreated, recorder.entries[0].Status)

	assert.Equal(t, "editou funcionarios", recorder.entries[1].Acao)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", recorder.entries[1].RecursoID)
	assert.Equal(t, http.MethodPut, recorder.entries[1].Metodo)
}

func TestActivityLogMiddleware_SkipsReadsFailuresAndOwnRoutes(t *testing.T) {
	recorder := &recordingRecorder{}
	router := activityRouter(recorder)

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/clientes"},
		{http.MethodPut, "/api/filiais/65a1b2c3d4e5f60718293a4b"},
		{http.MethodPost, "/api/logs"},
		{http.MethodPost, "/api/auth/login"},
	}
	for _, r := range requests {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(r.method, r.path, nil))
	}

	assert.Empty(t, recorder.entries)
}

func TestActivityLogMiddleware_UsesClaims(t *testing.T) {
	recorder := &recordingRecorder{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ClaimsKey, &models.AuthClaims{ID: "u1", Username: "joao", Role: models.RoleRH})
		c.Next()
	})
	router.Use(ActivityLogMiddleware(recorder))
	router.POST("/api/psl", func(c *gin.Context) { c.Status(http.StatusCreated) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/psl", nil))

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "u1", recorder.entries[0].UserID)
	assert.Equal(t, "joao", recorder.entries[0].Username)
}

func TestResourceFromPath(t *testing.T) {
	assert.Equal(t, "funcionarios", resourceFromPath("/api/funcionarios/com-anexos/1"))
	assert.Equal(t, "tipoFornecedor", resourceFromPath("/api/tipoFornecedor"))
	assert.Equal(t, "desconhecido", resourceFromPath("/api"))
}
