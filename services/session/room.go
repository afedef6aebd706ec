package session

import (
	"time"

	"Morris/services/game"
)

type RoomStatus string

const (
	StatusWaiting   RoomStatus = "waiting"
	StatusActive    RoomStatus = "active"
	StatusFinished  RoomStatus = "finished"
	StatusAbandoned RoomStatus = "abandoned"
)

// Player slots. The room creator, or the first entry drawn from the
// matchmaking queue, always takes SlotPlayer1 and plays X.
const (
	SlotPlayer1 = "player1"
	SlotPlayer2 = "player2"
)

const MaxSeats = 2

// Conn is the transport connection a seat or queue entry is bound to.
type Conn interface {
	ID() string
	Emit(event string, payload any)
}

// Seat binds a connection and its user to a symbol and slot of a room.
type Seat struct {
	Conn     Conn
	UserID   string
	Username string
	PlayerID string
	Symbol   game.Symbol
	JoinedAt time.Time
}

// Room is one live game. It is owned by the RoomRegistry.
type Room struct {
	ID        string
	Status    RoomStatus
	Seats     []*Seat
	State     game.State
	MoveCount int
	Winner    game.Symbol
	CreatedAt time.Time
	StartedAt time.Time
}

// SeatOf returns the seat bound to the given connection id.
func (r *Room) SeatOf(connID string) (*Seat, bool) {
	for _, s := range r.Seats {
		if s.Conn.ID() == connID {
			return s, true
		}
	}
	return nil, false
}

// Opponent returns the seat that is not bound to connID.
func (r *Room) Opponent(connID string) (*Seat, bool) {
	for _, s := range r.Seats {
		if s.Conn.ID() != connID {
			return s, true
		}
	}
	return nil, false
}

func (r *Room) Full() bool {
	return len(r.Seats) >= MaxSeats
}

// Snapshot copies the room into its storage shape.
func (r *Room) Snapshot() RoomSnapshot {
	players := make([]SnapshotPlayer, 0, len(r.Seats))
	for _, s := range r.Seats {
		players = append(players, SnapshotPlayer{
			UserID:   s.UserID,
			Username: s.Username,
			PlayerID: s.PlayerID,
			Symbol:   s.Symbol,
		})
	}
	return RoomSnapshot{
		RoomID:    r.ID,
		Status:    r.Status,
		Players:   players,
		State:     r.State,
		MoveCount: r.MoveCount,
		Winner:    r.Winner,
	}
}
