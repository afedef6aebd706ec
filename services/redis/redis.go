package redis

import (
	redis_models "Morris/models/redis"
	redis_utils "Morris/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LiveTTL bounds how long a mirrored key outlives its last write
const LiveTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance. Addr is either a
// host:port pair or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if strings.Contains(Addr, "://") {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// SaveLiveRoom stores the live view of a room
// Key format: "room:{id}:live"
// TTL: 24 hours
func (rc *RedisClient) SaveLiveRoom(room *redis_models.LiveRoom) error {
	key := redis_utils.FormatLiveRoomKey(room.RoomID)
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("error marshaling live room: %w", err)
	}
	return rc.client.Set(rc.ctx, key, data, LiveTTL).Err()
}

// GetLiveRoom retrieves the live view of a room
// Returns nil without error when the room is not mirrored
func (rc *RedisClient) GetLiveRoom(roomId string) (*redis_models.LiveRoom, error) {
	key := redis_utils.FormatLiveRoomKey(roomId)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting live room: %w", err)
	}

	var room redis_models.LiveRoom
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("error unmarshaling live room: %w", err)
	}
	return &room, nil
}

// DeleteLiveRoom removes the live view of a room
func (rc *RedisClient) DeleteLiveRoom(roomId string) error {
	if err := rc.client.Del(rc.ctx, redis_utils.FormatLiveRoomKey(roomId)).Err(); err != nil {
		return fmt.Errorf("error deleting live room: %w", err)
	}
	return nil
}

// SavePresence stores the last known activity of a user
// Key format: "presence:{userId}"
// TTL: 24 hours
func (rc *RedisClient) SavePresence(presence *redis_models.PlayerPresence) error {
	key := redis_utils.FormatPresenceKey(presence.UserID)
	data, err := json.Marshal(presence)
	if err != nil {
		return fmt.Errorf("error marshaling presence: %w", err)
	}
	return rc.client.Set(rc.ctx, key, data, LiveTTL).Err()
}

// GetPresence retrieves a user's presence, nil when the user is offline
func (rc *RedisClient) GetPresence(userId string) (*redis_models.PlayerPresence, error) {
	data, err := rc.client.Get(rc.ctx, redis_utils.FormatPresenceKey(userId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting presence: %w", err)
	}

	var presence redis_models.PlayerPresence
	if err := json.Unmarshal(data, &presence); err != nil {
		return nil, fmt.Errorf("error unmarshaling presence: %w", err)
	}
	return &presence, nil
}

func (rc *RedisClient) DeletePresence(userId string) error {
	if err := rc.client.Del(rc.ctx, redis_utils.FormatPresenceKey(userId)).Err(); err != nil {
		return fmt.Errorf("error deleting presence: %w", err)
	}
	return nil
}
