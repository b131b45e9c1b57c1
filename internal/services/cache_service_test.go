package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_WithoutRedisIsNoop(t *testing.T) {
	ctx := context.Background()
	cache := NewCacheService(nil, logging.Logger)

	var out []models.SituacaoCount
	assert.False(t, cache.GetJSON(ctx, CacheKeySituacaoStats, &out))
	assert.NoError(t, cache.SetJSON(ctx, CacheKeySituacaoStats, []models.SituacaoCount{{Situacao: "Ativo", Count: 1}}, time.Minute))
	cache.InvalidateEmployeeStats(ctx)

	var nilCache *CacheService
	assert.False(t, nilCache.GetJSON(ctx, "k", &out))
}

func TestCacheService_RoundTripAndInvalidate(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis integration tests: REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redisclient.NewClient(redis.NewClient(&redis.Options{Addr: addr}))
	require.NoError(t, client.Ping(ctx).Err())

	cache := NewCacheService(client, logging.Logger)
	stats := []models.SituacaoCount{{Situacao: "Ativo", Count: 3}, {Situacao: "Inativo", Count: 1}}
	require.NoError(t, cache.SetJSON(ctx, CacheKeySituacaoStats, stats, time.Minute))

	var cached []models.SituacaoCount
	require.True(t, cache.GetJSON(ctx, CacheKeySituacaoStats, &cached))
	assert.Equal(t, stats, cached)

	cache.SyncHook()(ctx, &models.SyncReport{Written: 1})
	assert.False(t, cache.GetJSON(ctx, CacheKeySituacaoStats, &cached))
}
