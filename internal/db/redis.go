package db

import (
	"context"
	"time"

	"backend-getyourextreme/internal/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no address is set or the server does not
// answer a ping, so callers fall back to in-memory storage.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
