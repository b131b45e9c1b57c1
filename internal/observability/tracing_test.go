package observability

import (
	"testing"

	"github.com/grupolocar/locar-api/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInitTracer_Disabled(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	config.AppConfig = &config.Config{TracingEnabled: false}

	InitTracer("locar-api")
	assert.Nil(t, tracerProvider)
}

func TestInitTracer_NilConfig(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	config.AppConfig = nil

	InitTracer("locar-api")
	assert.Nil(t, tracerProvider)
}

func TestInitTracer_EnabledThenShutdown(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	// The gRPC exporter dials lazily, so an unreachable endpoint still builds a provider
	config.AppConfig = &config.Config{TracingEnabled: true, TracingEndpoint: "127.0.0.1:4317", Environment: "test"}

	InitTracer("locar-api")
	assert.NotNil(t, tracerProvider)

	ShutdownTracer()
	assert.Nil(t, tracerProvider)
}

func TestShutdownTracer_NoProvider(t *testing.T) {
	tracerProvider = nil
	ShutdownTracer()
}
