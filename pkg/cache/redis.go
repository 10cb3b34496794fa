package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and pings it. It returns nil when addr is
// empty or the server does not answer; callers run without Redis then.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Redis] %s unavailable, rate limiting disabled: %v", addr, err)
		client.Close()
		return nil
	}

	log.Printf("[Redis] connected to %s", addr)
	return client
}
