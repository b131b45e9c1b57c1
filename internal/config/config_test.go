package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearSyncEnv blanks every variable that can feed the synchronizer endpoints
func clearSyncEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ATLAS_URI", "LOCAL_URI", "MONGODB_URI", "MONGO_URI"} {
		t.Setenv(key, "")
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		want         string
	}{
		{name: "environment variable set", key: "LOCAR_TEST_KEY_1", defaultValue: "default", envValue: "custom", setEnv: true, want: "custom"},
		{name: "environment variable not set", key: "LOCAR_TEST_KEY_2", defaultValue: "default", want: "default"},
		{name: "empty environment variable", key: "LOCAR_TEST_KEY_3", defaultValue: "default", envValue: "", setEnv: true, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvOrDefault(tt.key, tt.defaultValue))
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     int
	}{
		{name: "valid integer", envValue: "42", setEnv: true, want: 42},
		{name: "not set", want: 10},
		{name: "invalid integer", envValue: "dez", setEnv: true, want: 10},
		{name: "negative integer", envValue: "-5", setEnv: true, want: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("LOCAR_TEST_INT", tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvAsIntOrDefault("LOCAR_TEST_INT", 10))
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     bool
	}{
		{name: "true", envValue: "true", setEnv: true, want: true},
		{name: "numeric true", envValue: "1", setEnv: true, want: true},
		{name: "false", envValue: "false", setEnv: true, want: false},
		{name: "invalid keeps default", envValue: "sim", setEnv: true, want: true},
		{name: "unset keeps default", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv("LOCAR_TEST_BOOL", tt.envValue)
			}
			assert.Equal(t, tt.want, getEnvAsBoolOrDefault("LOCAR_TEST_BOOL", true))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearSyncEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")

	require.NoError(t, LoadConfig())

	assert.Equal(t, 5000, AppConfig.Port)
	assert.Equal(t, "grupolocar", AppConfig.MongoDatabase)
	assert.Equal(t, "funcionarios", AppConfig.EmployeeCollection)
	assert.Equal(t, "formulario", AppConfig.SyncRemoteDatabase)
	assert.Equal(t, "funcionarios", AppConfig.SyncRemoteCollection)
	assert.Equal(t, "grupolocar", AppConfig.SyncLocalDatabase)
	assert.Equal(t, "cpf", AppConfig.SyncMode)
	assert.Equal(t, 100, AppConfig.SyncBatchSize)
	assert.True(t, AppConfig.UsesDevelopmentSecret())
	assert.Equal(t, 24*time.Hour, TokenLifetime)
}

func TestLoadConfig_MissingSyncURIsIsNotAServerError(t *testing.T) {
	clearSyncEnv(t)
	t.Setenv("ENVIRONMENT", "development")

	require.NoError(t, LoadConfig())

	assert.Empty(t, AppConfig.SyncRemoteURI)
	assert.Empty(t, AppConfig.SyncLocalURI)
}

func TestLoadConfig_LocalURIFallsBackToMongoURI(t *testing.T) {
	clearSyncEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("ATLAS_URI", "mongodb+srv://atlas.example.net")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	require.NoError(t, LoadConfig())

	assert.Equal(t, "mongodb+srv://atlas.example.net", AppConfig.SyncRemoteURI)
	assert.Equal(t, "mongodb://localhost:27017", AppConfig.SyncLocalURI)
	assert.Equal(t, "mongodb://localhost:27017", AppConfig.MongoURI)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "invalid port", env: map[string]string{"PORT": "porta"}},
		{name: "invalid redis db", env: map[string]string{"REDIS_DB": "x"}},
		{name: "invalid sync interval", env: map[string]string{"SYNC_INTERVAL": "sempre"}},
		{name: "invalid sync mode", env: map[string]string{"SYNC_MODE": "merge"}},
		{name: "missing secret in production", env: map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", "development")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Error(t, LoadConfig())
		})
	}
}

func TestClampBatchSize(t *testing.T) {
	assert.Equal(t, 1, clampBatchSize(0))
	assert.Equal(t, 250, clampBatchSize(250))
	assert.Equal(t, 1000, clampBatchSize(50000))
}
