package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arena-api/config"
	"arena-api/metrics"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var REDIS *redis.Client

// SubmissionsCacheKey prefixes the cached submission listings of every competition
const SubmissionsCacheKey = "competition_submissions:"

// SubmissionsCachePrefix returns the key prefix of the cached listings of one competition
func SubmissionsCachePrefix(competitionID uint) string {
    return fmt.Sprintf("%s%d:", SubmissionsCacheKey, competitionID)
}

// InitRedis connects to redis when REDIS_HOST is set. Without it the API runs uncached
func InitRedis(ctx context.Context) {
    if config.RedisHost == "" {
        log.Println("REDIS_HOST not set, response cache disabled")
        return
    }

    client := redis.NewClient(&redis.Options{
        Addr: fmt.Sprintf("%s:%s", config.RedisHost, config.RedisPort),
    })
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("Failed to connect to redis, response cache disabled: %v", err)
        _ = client.Close()
        return
    }
    REDIS = client
}

// Cache is a JSON cache-aside helper over redis. A Cache with a nil client misses on every read
type Cache struct {
    client *redis.Client
}

// NewCache wraps a redis client, which may be nil
func NewCache(client *redis.Client) *Cache {
    return &Cache{client: client}
}

// GetJSON loads the value stored under key into dest and reports whether it was found
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
    if c == nil || c.client == nil {
        return false
    }
    raw, err := c.client.Get(ctx, key).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            log.Printf("Failed to read cache key %s: %v", key, err)
        }
        metrics.CacheMisses.Inc()
        return false
    }
    if err := json.Unmarshal(raw, dest); err != nil {
        metrics.CacheMisses.Inc()
        return false
    }
    metrics.CacheHits.Inc()
    return true
}

// SetJSON stores value under key for ttl
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
    if c == nil || c.client == nil {
        return
    }
    raw, err := json.Marshal(value)
    if err != nil {
        log.Printf("Failed to encode cache value for %s: %v", key, err)
        return
    }
    if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
        log.Printf("Failed to write cache key %s: %v", key, err)
    }
}

// Invalidate deletes every key starting with prefix
func (c *Cache) Invalidate(ctx context.Context, prefix string) {
    if c == nil || c.client == nil {
        return
    }
    keys, err := c.client.Keys(ctx, prefix+"*").Result()
    if err != nil {
        log.Printf("Failed to list cache keys %s*: %v", prefix, err)
        return
    }
    if len(keys) == 0 {
        return
    }
    if err := c.client.Del(ctx, keys...).Err(); err != nil {
        log.Printf("Failed to invalidate cache keys %s*: %v", prefix, err)
    }
}
