package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// GameMove is one entry of a room's append-only move log. BoardState holds
// the board after the move as a JSON array of nine cells.
type GameMove struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RoomID       string         `gorm:"size:6;not null;uniqueIndex:idx_game_moves_room_number" json:"room_id"`
	MoveNumber   int            `gorm:"not null;uniqueIndex:idx_game_moves_room_number" json:"move_number"`
	PlayerSymbol string         `gorm:"size:1;not null" json:"player_symbol"`
	BoardState   datatypes.JSON `gorm:"type:jsonb;not null" json:"board_state"`
	GamePhase    string         `gorm:"size:16;not null" json:"game_phase"`
	Timestamp    time.Time      `gorm:"not null" json:"timestamp"`
}
