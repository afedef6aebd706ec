package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

const (
	LiveRoomPattern = "room:*:live"
	PresencePattern = "presence:*"
)

func FormatLiveRoomKey(roomId string) string {
	return fmt.Sprintf("room:%s:live", roomId)
}

func FormatPresenceKey(userId string) string {
	return fmt.Sprintf("presence:%s", userId)
}
