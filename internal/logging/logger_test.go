package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "default level", logLevel: ""},
		{name: "debug level", logLevel: "debug"},
		{name: "invalid level falls back", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)

			require.NoError(t, InitLogger())
			require.NotNil(t, Logger)
			assert.NotNil(t, Logger.logger)
		})
	}
}

func TestInitLogger_WritesRotatingFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "locar.log")
	t.Setenv("LOG_FILE", logFile)
	t.Setenv("LOG_LEVEL", "info")

	require.NoError(t, InitLogger())
	Logger.Info("funcionario sincronizado", zap.String("cpf", "111.***.333-**"))
	_ = Logger.Sync()

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "funcionario sincronizado")
	assert.Contains(t, string(content), `"service":"locar-api"`)
}

func TestSafeLogger_NilSafety(t *testing.T) {
	var nilSafe *SafeLogger
	empty := &SafeLogger{}

	for _, logger := range []*SafeLogger{nilSafe, empty} {
		logger.Info("info")
		logger.Warn("warn")
		logger.Debug("debug")
		logger.Error("error", zap.String("k", "v"))
		assert.NotNil(t, logger.Unwrap())
		assert.NoError(t, logger.Sync())
	}

	assert.Nil(t, nilSafe.With(zap.String("k", "v")))
	assert.Nil(t, nilSafe.Named("sync"))
	assert.Equal(t, empty, empty.With(zap.String("k", "v")))
	assert.Equal(t, empty, empty.Named("sync"))
}

func TestSafeLogger_WithAndNamed(t *testing.T) {
	base := NewSafeLogger(zap.NewNop())

	child := base.With(zap.String("modulo", "funcionarios")).Named("sync").With(zap.Int("lote", 1))

	require.NotNil(t, child)
	assert.NotNil(t, child.logger)
	assert.NotSame(t, base, child)
	child.Info("chained")
}

func TestSafeLogger_Unwrap(t *testing.T) {
	zapLogger := zap.NewNop()
	logger := NewSafeLogger(zapLogger)

	assert.Equal(t, zapLogger, logger.Unwrap())
}

func TestGlobalLoggerUsableBeforeInit(t *testing.T) {
	assert.NotNil(t, Logger)
	Logger.Info("logger available before init")
}
