// Package testutil starts disposable backing services for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// StartMongo returns the connection string of a disposable MongoDB.
// MONGODB_TEST_URI short-circuits the container when set.
func StartMongo(ctx context.Context) (uri string, terminate func(), err error) {
	if existing := os.Getenv("MONGODB_TEST_URI"); existing != "" {
		return existing, func() {}, nil
	}

	// testcontainers panics on some hosts without a Docker socket
	defer func() {
		if r := recover(); r != nil {
			uri, terminate, err = "", nil, fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()

	container, err := mongodb.Run(ctx, "mongo:7.0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to start MongoDB container: %w", err)
	}

	uri, err = container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return "", nil, fmt.Errorf("failed to get MongoDB connection string: %w", err)
	}

	return uri, func() { _ = testcontainers.TerminateContainer(container) }, nil
}

// StartRedis returns the host:port address of a disposable Redis.
// REDIS_ADDR short-circuits the container when set.
func StartRedis(ctx context.Context) (addr string, terminate func(), err error) {
	if existing := os.Getenv("REDIS_ADDR"); existing != "" {
		return existing, func() {}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			addr, terminate, err = "", nil, fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return "", nil, fmt.Errorf("failed to start Redis container: %w", err)
	}

	connection, err := container.ConnectionString(ctx)
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return "", nil, fmt.Errorf("failed to get Redis connection string: %w", err)
	}

	return strings.TrimPrefix(connection, "redis://"), func() { _ = testcontainers.TerminateContainer(container) }, nil
}
