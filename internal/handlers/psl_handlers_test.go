package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/services"
	"github.com/grupolocar/locar-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestPSLFilterFromQuery(t *testing.T) {
	c := queryContext("/api/psl?filial=%20RIOSUL%20&ocorrencia=Emergencia&inicio=2025-01-01&fim=2025-01-31")

	filter, problems := pslFilterFromQuery(c)

	require.Empty(t, problems)
	assert.Equal(t, "RIOSUL", filter.Filial)
	assert.Equal(t, "Emergencia", filter.Ocorrencia)
	assert.True(t, filter.Inicio.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, utils.BrazilLocation)))
	assert.True(t, filter.Fim.Equal(time.Date(2025, 1, 31, 23, 59, 59, 999999999, utils.BrazilLocation)),
		"a date-only end covers the whole day")
}

func TestPSLFilterFromQuery_TimestampEndKeptAsIs(t *testing.T) {
	c := queryContext("/api/psl?fim=2025-01-31T12:00:00Z")

	filter, problems := pslFilterFromQuery(c)

	require.Empty(t, problems)
	assert.True(t, filter.Fim.Equal(time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)))
	assert.True(t, filter.Inicio.IsZero())
}

func TestPSLFilterFromQuery_InvalidDates(t *testing.T) {
	c := queryContext("/api/psl?inicio=ontem&fim=31-13-2025")

	_, problems := pslFilterFromQuery(c)

	require.Len(t, problems, 2)
	assert.Equal(t, "inicio", problems[0].Field)
	assert.Equal(t, "fim", problems[1].Field)
}

func TestPSLList_InvalidDateIsBadRequest(t *testing.T) {
	h := NewPSLHandlers(services.NewPSLService(nil, logging.Logger), logging.Logger)
	router := gin.New()
	router.GET("/api/psl", h.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/psl?inicio=amanha", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "inicio")
}
