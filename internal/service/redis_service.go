package service

import (
	"context"
	"log"
	"sync"
	"time"

	"album-server/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	redisOnce   sync.Once
	redisClient *redis.Client
	redisReady  bool
)

// GetRedisClient returns the shared client, or nil when redis is disabled
// or unreachable; callers fall back to in-memory behavior.
func GetRedisClient() *redis.Client {
	redisOnce.Do(initRedisClient)
	if !redisReady {
		return nil
	}
	return redisClient
}

// RedisKey joins key parts under the configured prefix.
func RedisKey(parts ...string) string {
	cfg := config.Get()
	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "album"
	}
	key := prefix
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func initRedisClient() {
	cfg := config.Get()
	if !cfg.Redis.Enabled {
		redisReady = false
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		redisReady = false
		_ = client.Close()
		log.Printf("redis unavailable, falling back to in-memory mode: %v", err)
		return
	}

	redisClient = client
	redisReady = true
	log.Printf("redis connected: %s (db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
}

// CloseRedisClient closes the shared client.
func CloseRedisClient() error {
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	redisReady = false
	return err
}
