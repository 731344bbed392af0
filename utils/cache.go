package utils

import (
	"context"
	"log"
	"time"

	"agendamento/config"

	"github.com/go-redis/redis/v8"
)

// LockClient is the Redis client used for cross-process slot locks.
// It stays nil when REDIS_ADDR is empty.
var LockClient *redis.Client

// InitLockCache connects to Redis when an address is configured.
func InitLockCache() {
	if config.AppConfig.RedisAddr == "" {
		return
	}
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Lock): %v", err)
	}
}

// GetLockClient returns the lock client, or nil when Redis is not in use.
func GetLockClient() *redis.Client {
	return LockClient
}
