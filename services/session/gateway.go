package session

import (
	"time"

	"Morris/services/game"
)

// Gateway is the outbound side of durable storage. Every call hands the
// write to a background worker and returns immediately; the in-memory room
// stays the source of truth when a write fails.
type Gateway interface {
	SaveRoom(rec RoomRecord)
	SaveSeat(rec SeatRecord)
	UpdateRoomStatus(roomID string, status RoomStatus, winner game.Symbol)
	SaveMove(rec MoveRecord)
	UpdateUserStats(userID string, won bool)
	MirrorRoom(snap RoomSnapshot)
	ForgetRoom(roomID string)
	TrackPresence(p Presence)
	ForgetPresence(userID string)
}

type RoomRecord struct {
	RoomID          string
	Status          RoomStatus
	CreatedByUserID string
	CreatedAt       time.Time
	StartedAt       time.Time
}

type SeatRecord struct {
	RoomID   string
	UserID   string
	SocketID string
	PlayerID string
	Symbol   game.Symbol
	JoinedAt time.Time
}

// MoveRecord is one entry of the append-only move log. Symbol is the side
// that made the move.
type MoveRecord struct {
	RoomID     string
	MoveNumber int
	Symbol     game.Symbol
	Board      game.Board
	Phase      game.Phase
	Timestamp  time.Time
}

type SnapshotPlayer struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	PlayerID string      `json:"player_id"`
	Symbol   game.Symbol `json:"player_symbol"`
}

// RoomSnapshot is the live view of a room mirrored outside the process.
type RoomSnapshot struct {
	RoomID    string           `json:"room_id"`
	Status    RoomStatus       `json:"status"`
	Players   []SnapshotPlayer `json:"players"`
	State     game.State       `json:"state"`
	MoveCount int              `json:"move_count"`
	Winner    game.Symbol      `json:"winner,omitempty"`
}

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceQueued  PresenceStatus = "queued"
	PresencePlaying PresenceStatus = "playing"
)

// Presence is the last known activity of a connected user.
type Presence struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Status   PresenceStatus `json:"status"`
	SocketID string         `json:"socket_id"`
	RoomID   string         `json:"room_id,omitempty"`
	LastSeen time.Time      `json:"last_seen"`
}

func seatRecord(roomID string, s *Seat) SeatRecord {
	return SeatRecord{
		RoomID:   roomID,
		UserID:   s.UserID,
		SocketID: s.Conn.ID(),
		PlayerID: s.PlayerID,
		Symbol:   s.Symbol,
		JoinedAt: s.JoinedAt,
	}
}

// NopGateway discards every write.
type NopGateway struct{}

func (NopGateway) SaveRoom(RoomRecord) {}
func (NopGateway) SaveSeat(SeatRecord) {}
func (NopGateway) UpdateRoomStatus(string, RoomStatus, game.Symbol) {}
func (NopGateway) SaveMove(MoveRecord) {}
func (NopGateway) UpdateUserStats(string, bool) {}
func (NopGateway) MirrorRoom(RoomSnapshot) {}
func (NopGateway) ForgetRoom(string) {}
func (NopGateway) TrackPresence(Presence) {}
func (NopGateway) ForgetPresence(string) {}
