package cache

import (
	"context"
	"encoding/json"
	"time"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Cache keys and TTLs. Dashboard stats are parameterized by query period.
const (
	KeyStockSummary = "stock:summary"
	keyStatsPrefix  = "dashboard:stats:"

	StatsTTL   = 2 * time.Minute
	SummaryTTL = 5 * time.Minute
)

// StatsPeriods lists every period a stats entry can be cached under, used to
// invalidate all of them on a write.
var StatsPeriods = []string{"today", "week", "month", "year"}

func KeyDashboardStats(period string) string {
	return keyStatsPrefix + period
}

// Store is the cache port used by read handlers. Implementations must treat
// the cache as an optional accelerator: callers fall through to the database
// on any error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

// Redis is the redis-backed Store. Every failure is logged and swallowed so
// the read path can fail open to the database.
type Redis struct {
	client *redis.Client
}

func NewRedis(cfg *config.Config) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr,
		DB:         cfg.RedisDB,
		MaxRetries: 3,
	})
	return &Redis{client: client}
}

// Client exposes the underlying connection for components that share it
// (the task queue).
func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		logger.Sugar().Warnw("cache get failed", "key", key, "error", err)
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Sugar().Warnw("cache set failed", "key", key, "error", err)
	}
}

func (r *Redis) Del(ctx context.Context, keys ...string) {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.Sugar().Warnw("cache del failed", "keys", keys, "error", err)
	}
}

// GetJSON unmarshals a cached entry into dest, reporting a miss on any
// decode error.
func GetJSON(ctx context.Context, s Store, key string, dest any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Sugar().Warnw("cache entry corrupt, discarding", "key", key, "error", err)
		s.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores v under key; marshal errors are logged and the entry is
// skipped.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Sugar().Warnw("cache marshal failed", "key", key, "error", err)
		return
	}
	s.Set(ctx, key, string(raw), ttl)
}

// InvalidateInventory drops every entry derived from transactions or stock.
func InvalidateInventory(ctx context.Context, s Store) {
	keys := []string{KeyStockSummary}
	for _, p := range StatsPeriods {
		keys = append(keys, KeyDashboardStats(p))
	}
	s.Del(ctx, keys...)
}
