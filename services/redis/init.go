package redis

import (
	"fmt"
	"log"
)

// InitRedis initializes the Redis connection and drops live state left over
// from a previous process
func InitRedis(Addr string, DB int) (*RedisClient, error) {
	rc, err := NewRedisClient(Addr, DB)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := rc.client.Ping(rc.ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Successfully connected to Redis")

	removed, err := rc.FlushLiveState()
	if err != nil {
		return nil, fmt.Errorf("failed to flush live state: %w", err)
	}
	if removed > 0 {
		log.Printf("Removed %d stale live keys", removed)
	}

	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}
