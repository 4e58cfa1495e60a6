/**
 * @description
 * Redis connection manager using go-redis.
 * Used for caching marketplace reads and the per-session ensured-user markers.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package db

import (
	"context"
	"time"

	"github.com/deepshare-project/backend/internal/config"
	"github.com/deepshare-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes the Redis client
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	// The cache is an optimization layer here, so keep timeouts short:
	// a slow Redis should degrade to the DB path, not stall requests.
	for _, timeout := range []*time.Duration{&opt.ReadTimeout, &opt.WriteTimeout, &opt.DialTimeout, &opt.PoolTimeout} {
		if *timeout == 0 {
			*timeout = 5 * time.Second
		}
	}
	if opt.MaxRetries == 0 {
		opt.MaxRetries = 2
	}
	if opt.PoolSize == 0 {
		opt.PoolSize = 10
	}

	client := redis.NewClient(opt)

	// Ping to verify connection
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	logger.Info("✅ Connected to Redis")
	return client, nil
}
