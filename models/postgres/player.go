package postgres

import (
	"time"
)

/*
 * 'Player' records a seat taken in a room: which user, through which socket,
 * in which slot and with which symbol.
 */
type Player struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoomID       string    `gorm:"size:6;not null;index:idx_players_room" json:"room_id"`
	UserID       string    `gorm:"size:64;not null;index:idx_players_user" json:"user_id"`
	SocketID     string    `gorm:"size:64;not null" json:"socket_id"`
	PlayerID     string    `gorm:"size:16;not null" json:"player_id"`
	PlayerSymbol string    `gorm:"size:1;not null" json:"player_symbol"`
	JoinedAt     time.Time `gorm:"not null" json:"joined_at"`
}
