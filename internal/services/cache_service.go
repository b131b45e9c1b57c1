package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/models"
	"github.com/grupolocar/locar-api/internal/observability"
	"github.com/grupolocar/locar-api/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache keys
const (
	CacheKeySituacaoStats = "funcionarios:estatisticas:situacao"
)

// CacheService stores JSON values in Redis. Every method is a no-op when Redis
// is not configured, so callers fall through to MongoDB.
type CacheService struct {
	redis  *redisclient.Client
	logger *logging.SafeLogger
}

// NewCacheService creates a new cache service; redis may be nil
func NewCacheService(redis *redisclient.Client, logger *logging.SafeLogger) *CacheService {
	return &CacheService{redis: redis, logger: logger}
}

func isRedisNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// GetJSON decodes the cached value of key into out and reports whether it was found
func (s *CacheService) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if s == nil || s.redis == nil {
		return false
	}

	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !isRedisNil(err) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		observability.CacheHits.WithLabelValues(key, "miss").Inc()
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		observability.CacheHits.WithLabelValues(key, "miss").Inc()
		return false
	}

	observability.CacheHits.WithLabelValues(key, "hit").Inc()
	return true
}

// SetJSON stores value under key for ttl
func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s == nil || s.redis == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	if err := s.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Invalidate removes keys; failures are logged only
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.redis == nil || len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// InvalidateEmployeeStats drops the cached situacao statistics
func (s *CacheService) InvalidateEmployeeStats(ctx context.Context) {
	s.Invalidate(ctx, CacheKeySituacaoStats)
}

// SyncHook invalidates the statistics after a synchronizer run wrote documents
func (s *CacheService) SyncHook() SyncHook {
	return func(ctx context.Context, _ *models.SyncReport) {
		s.InvalidateEmployeeStats(ctx)
	}
}
