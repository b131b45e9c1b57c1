package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestTiming_SetsStartTime(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	var startTime time.Time
	router.GET("/test", func(c *gin.Context) {
		value, exists := c.Get(RequestStartKey)
		assert.True(t, exists)
		startTime, _ = value.(time.Time)
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, startTime.IsZero())
}

func TestRequestTiming_MultipleMethods(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	router.GET("/test", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	router.POST("/test", func(c *gin.Context) { c.JSON(http.StatusCreated, gin.H{}) })
	router.PUT("/test", func(c *gin.Context) { c.JSON(http.StatusInternalServerError, gin.H{}) })

	methods := []struct {
		method string
		status int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusCreated},
		{http.MethodPut, http.StatusInternalServerError},
	}

	for _, m := range methods {
		t.Run(m.method, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(m.method, "/test", nil))
			assert.Equal(t, m.status, w.Code)
		})
	}
}

func TestRequestTiming_UnmatchedRoute(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nao-existe", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "200", statusLabel(http.StatusOK))
	assert.Equal(t, "404", statusLabel(http.StatusNotFound))
}
