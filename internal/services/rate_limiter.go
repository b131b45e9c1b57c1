package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grupolocar/locar-api/internal/logging"
	"github.com/grupolocar/locar-api/internal/redisclient"
	"go.uber.org/zap"
)

const loginAttemptsKeyPrefix = "login_attempts:"

// attemptWindow counts failures inside one fixed window
type attemptWindow struct {
	failures int
	expires  time.Time
}

// LoginThrottle limits failed logins per username. Counters live in Redis
// when it is reachable and in process memory otherwise.
type LoginThrottle struct {
	redis       *redisclient.Client
	maxAttempts int
	window      time.Duration
	logger      *logging.SafeLogger

	mutex sync.Mutex
	local map[string]*attemptWindow
	now   func() time.Time
}

// NewLoginThrottle creates a throttle. A non-positive maxAttempts disables it.
func NewLoginThrottle(redis *redisclient.Client, maxAttempts int, window time.Duration, logger *logging.SafeLogger) *LoginThrottle {
	return &LoginThrottle{
		redis:       redis,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
		local:       make(map[string]*attemptWindow),
		now:         time.Now,
	}
}

func throttleKey(username string) string {
	return loginAttemptsKeyPrefix + strings.ToLower(strings.TrimSpace(username))
}

// Allow reports whether username may try to log in
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if t == nil || t.maxAttempts <= 0 {
		return true
	}
	key := throttleKey(username)

	if t.redis != nil {
		count, err := t.redis.Get(ctx, key).Int()
		if err == nil {
			return count < t.maxAttempts
		}
		if !isRedisNil(err) {
			t.logger.Warn("login throttle falling back to memory", zap.Error(err))
			return t.allowLocal(key)
		}
		return true
	}
	return t.allowLocal(key)
}

// RecordFailure counts one failed attempt for username
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t == nil || t.maxAttempts <= 0 {
		return
	}
	key := throttleKey(username)

	if t.redis != nil {
		count, err := t.redis.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				if err := t.redis.Expire(ctx, key, t.window).Err(); err != nil {
					t.logger.Warn("failed to set login throttle expiration", zap.Error(err))
				}
			}
			return
		}
		t.logger.Warn("login throttle falling back to memory", zap.Error(err))
	}
	t.recordLocal(key)
}

// Reset clears the failures of username after a successful login
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if t == nil {
		return
	}
	key := throttleKey(username)
	if t.redis != nil {
		if err := t.redis.Del(ctx, key).Err(); err != nil {
			t.logger.Warn("failed to reset login throttle", zap.Error(err))
		}
	}
	t.mutex.Lock()
	delete(t.local, key)
	t.mutex.Unlock()
}

func (t *LoginThrottle) allowLocal(key string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	entry, ok := t.local[key]
	if !ok || !t.now().Before(entry.expires) {
		return true
	}
	return entry.failures < t.maxAttempts
}

func (t *LoginThrottle) recordLocal(key string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := t.now()
	entry, ok := t.local[key]
	if !ok || !now.Before(entry.expires) {
		entry = &attemptWindow{expires: now.Add(t.window)}
		t.local[key] = entry
	}
	entry.failures++

	if entry.failures >= t.maxAttempts {
		t.logger.Warn("login throttled",
			zap.String("key", key),
			zap.Int("failures", entry.failures),
			zap.Time("until", entry.expires))
	}
}

// CleanupOldEntries drops expired in-memory windows
func (t *LoginThrottle) CleanupOldEntries() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	now := t.now()
	removed := 0
	for key, entry := range t.local {
		if !now.Before(entry.expires) {
			delete(t.local, key)
			removed++
		}
	}
	if removed > 0 {
		t.logger.Debug("cleaned up login throttle entries", zap.Int("removed", removed))
	}
	return removed
}

// StartCleanup runs CleanupOldEntries every interval until ctx is done
func (t *LoginThrottle) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.CleanupOldEntries()
			}
		}
	}()
}
