package postgres

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

/*
 * 'Room' is the durable record of a game room: its lifecycle and outcome.
 * The live board never lives here, only the moves that produced it.
 */
type Room struct {
	RoomID          string     `gorm:"primaryKey;size:6;not null" json:"room_id"`
	Status          string     `gorm:"size:16;not null;index:idx_rooms_status" json:"status"`
	CreatedByUserID string     `gorm:"size:64;index:idx_rooms_creator" json:"created_by_user_id"`
	CreatedAt       time.Time  `gorm:"not null;index:idx_rooms_created_at" json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Winner          string     `gorm:"size:1" json:"winner,omitempty"`

	// Seats and moves go away with the room
	Players []Player   `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Moves   []GameMove `gorm:"foreignKey:RoomID;references:RoomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

const RoomIDLength = 6

// BeforeSave keeps stored room codes in their canonical upper-case form.
func (r *Room) BeforeSave(tx *gorm.DB) error {
	r.RoomID = strings.ToUpper(strings.TrimSpace(r.RoomID))
	if len(r.RoomID) != RoomIDLength {
		return fmt.Errorf("room id %q must be %d characters", r.RoomID, RoomIDLength)
	}
	return nil
}

// RoomStats aggregates every stored room.
type RoomStats struct {
	TotalGames     int64 `json:"total_games"`
	CompletedGames int64 `json:"completed_games"`
	AbandonedGames int64 `json:"abandoned_games"`
	XWins          int64 `json:"x_wins"`
	OWins          int64 `json:"o_wins"`
}
