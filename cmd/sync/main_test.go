package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_FailedOneShotReturnsExitCode(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("TRACING_ENABLED", "false")
	t.Setenv("REDIS_URI", "127.0.0.1:1")
	t.Setenv("SYNC_INTERVAL", "0s")
	for _, key := range []string{"ATLAS_URI", "LOCAL_URI", "MONGODB_URI", "MONGO_URI"} {
		t.Setenv(key, "")
	}

	// The run must hand its exit code back instead of exiting, so deferred shutdowns run
	assert.Equal(t, 1, run())
}
