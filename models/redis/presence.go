package redis

type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusQueued  PlayerStatus = "queued"
	StatusPlaying PlayerStatus = "playing"
)

type PlayerPresence struct {
	UserID   string       `json:"user_id"`
	Username string       `json:"username"`
	Status   PlayerStatus `json:"status"`
	SocketID string       `json:"socket_id"`         // For direct messaging
	RoomID   string       `json:"room_id,omitempty"` // Set while seated
	LastPing int64        `json:"last_ping"`         // Unix timestamp
}
