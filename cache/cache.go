package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"railporter-server/config"
)

// Client is the shared Redis client, used to cache homepage review
// aggregates. It may be nil: callers must degrade gracefully by reading
// from Postgres directly.
var Client *redis.Client

// Initialize connects to Redis if REDIS_ADDR is configured. A missing or
// unreachable Redis disables caching rather than failing startup.
func Initialize() {
	addr := config.AppConfig.Redis.Addr
	if addr == "" {
		log.Println("ℹ️ REDIS_ADDR not set, review cache disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.AppConfig.Redis.Password,
		DB:       config.AppConfig.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable at %s, review cache disabled: %v", addr, err)
		return
	}

	Client = client
	log.Printf("✅ Connected to Redis at %s", addr)
}

// Get reads a cached JSON payload by key. Returns false when caching is
// disabled, the key is absent, or Redis errors.
func Get(ctx context.Context, key string) ([]byte, bool) {
	if Client == nil {
		return nil, false
	}
	val, err := Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Redis GET %s failed: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores a JSON payload with a TTL. Errors are logged and ignored.
func Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if Client == nil {
		return
	}
	if err := Client.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("⚠️ Redis SET %s failed: %v", key, err)
	}
}

// Invalidate drops cached keys after a write. Errors are logged and ignored.
func Invalidate(ctx context.Context, keys ...string) {
	if Client == nil || len(keys) == 0 {
		return
	}
	if err := Client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Redis DEL failed: %v", err)
	}
}
