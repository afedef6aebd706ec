package redis

import (
	redis_utils "Morris/services/redis/utils"
	"fmt"
)

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}

// FlushLiveState removes every mirrored room and presence key. Live state
// belongs to the process that wrote it, so a fresh process starts clean.
func (rc *RedisClient) FlushLiveState() (int, error) {
	removed := 0
	for _, pattern := range []string{redis_utils.LiveRoomPattern, redis_utils.PresencePattern} {
		iter := rc.client.Scan(rc.ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(rc.ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return removed, fmt.Errorf("failed to scan %s: %w", pattern, err)
		}
		if err := rc.CleanupKeys(keys); err != nil {
			return removed, err
		}
		removed += len(keys)
	}
	return removed, nil
}
