package utils

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"crewly/config"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// LockClient is the dedicated client for assignment locks.
	LockClient *redis.Client
)

// InitRedis initializes both Redis clients.
func InitRedis() {
	CacheClient = newClient(config.AppConfig.RedisCacheDB)
	LockClient = newClient(config.AppConfig.RedisLockDB)
}

func newClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		CacheClient = newClient(config.AppConfig.RedisCacheDB)
	}
	return CacheClient
}

// GetLockClient returns the Redis client used for assignment locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		LockClient = newClient(config.AppConfig.RedisLockDB)
	}
	return LockClient
}
