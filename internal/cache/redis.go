// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"moodmate/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const (
	userKeyPrefix = "user:%d"

	// UserTTL bounds staleness of cached user reads.
	UserTTL = 5 * time.Minute
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis is the production bootstrap: it dials the given address and keeps
// the client for GetClient. The cache is optional: if the connection fails the
// client stays nil and every consumer degrades to direct reads. Everything
// below takes the client explicitly so tests can inject their own.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client = redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		client = nil
	} else {
		log.Println("Redis connected successfully")
	}
}

// GetClient returns the bootstrapped Redis client (nil when unavailable).
func GetClient() *redis.Client {
	return client
}

// Close releases the bootstrapped Redis connection.
func Close() {
	if client != nil {
		if err := client.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
		client = nil
	}
}

// UserKey builds the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

// Invalidate drops a cached value.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}

// InvalidateUser drops the cached record for a user.
func InvalidateUser(ctx context.Context, rdb *redis.Client, userID uint) {
	Invalidate(ctx, rdb, UserKey(userID))
}

// Aside implements the cache-aside pattern: on a hit, dest is populated from
// the cached JSON; on a miss, load runs and its result is cached with the
// given TTL. Cache failures never fail the read, only the load can. A nil
// client degrades to calling load directly.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, load func() error) error {
	if rdb != nil {
		raw, err := rdb.Get(ctx, key).Result()
		if err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
				return nil
			}
			// Corrupt entry: drop it and fall through to the loader
			rdb.Del(ctx, key)
		}
	}

	if err := load(); err != nil {
		return err
	}

	if rdb != nil {
		if raw, err := json.Marshal(dest); err == nil {
			rdb.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}
