package session

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strings"
	"time"

	"Morris/services/game"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotActive   = errors.New("game is not in progress")
	ErrNotSeated       = errors.New("not seated in this room")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrRoomIDExhausted = errors.New("could not allocate a free room id")
)

// ValidationMode selects how submitted moves are checked.
type ValidationMode string

const (
	// ValidationStrict recomputes legality of every move on the server.
	ValidationStrict ValidationMode = "strict"
	// ValidationTrust accepts the submitted position as is, only checking
	// that the room exists.
	ValidationTrust ValidationMode = "trust"
)

const (
	RoomIDLength     = 6
	roomIDCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxRoomIDRetries = 100
)

// NormalizeRoomID upper-cases a user supplied room code.
func NormalizeRoomID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

func randomRoomID() string {
	limit := big.NewInt(int64(len(roomIDCharset)))
	b := make([]byte, RoomIDLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(err)
		}
		b[i] = roomIDCharset[n.Int64()]
	}
	return string(b)
}

// Participant is a user about to take a seat.
type Participant struct {
	Conn     Conn
	UserID   string
	Username string
}

type RegistryOption func(*RoomRegistry)

func WithIDGenerator(gen func() string) RegistryOption {
	return func(r *RoomRegistry) { r.newID = gen }
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *RoomRegistry) { r.now = now }
}

func WithValidation(mode ValidationMode) RegistryOption {
	return func(r *RoomRegistry) { r.mode = mode }
}

// RoomRegistry owns every live room. It is not safe for concurrent use; the
// Coordinator serializes access.
type RoomRegistry struct {
	rooms   map[string]*Room
	gateway Gateway
	newID   func() string
	now     func() time.Time
	mode    ValidationMode
}

func NewRoomRegistry(gateway Gateway, opts ...RegistryOption) *RoomRegistry {
	if gateway == nil {
		gateway = NopGateway{}
	}
	r := &RoomRegistry{
		rooms:   make(map[string]*Room),
		gateway: gateway,
		newID:   randomRoomID,
		now:     time.Now,
		mode:    ValidationStrict,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RoomRegistry) Mode() ValidationMode {
	return r.mode
}

func (r *RoomRegistry) allocateID() (string, error) {
	for i := 0; i < maxRoomIDRetries; i++ {
		id := NormalizeRoomID(r.newID())
		if _, taken := r.rooms[id]; !taken {
			return id, nil
		}
	}
	return "", ErrRoomIDExhausted
}

func (r *RoomRegistry) seat(p Participant, slot string, symbol game.Symbol) *Seat {
	return &Seat{
		Conn:     p.Conn,
		UserID:   p.UserID,
		Username: p.Username,
		PlayerID: slot,
		Symbol:   symbol,
		JoinedAt: r.now(),
	}
}

// CreateRoom opens a waiting room with owner seated as player1/X.
func (r *RoomRegistry) CreateRoom(owner Participant) (*Room, error) {
	id, err := r.allocateID()
	if err != nil {
		return nil, err
	}
	room := &Room{
		ID:        id,
		Status:    StatusWaiting,
		Seats:     []*Seat{r.seat(owner, SlotPlayer1, game.SymbolX)},
		State:     game.NewState(),
		CreatedAt: r.now(),
	}
	r.rooms[id] = room

	r.gateway.SaveRoom(RoomRecord{
		RoomID:          id,
		Status:          StatusWaiting,
		CreatedByUserID: owner.UserID,
		CreatedAt:       room.CreatedAt,
	})
	r.gateway.SaveSeat(seatRecord(id, room.Seats[0]))
	r.gateway.MirrorRoom(room.Snapshot())
	return room, nil
}

// CreateMatchedRoom opens an active room for two matched players; a plays X.
func (r *RoomRegistry) CreateMatchedRoom(a, b Participant) (*Room, error) {
	id, err := r.allocateID()
	if err != nil {
		return nil, err
	}
	now := r.now()
	room := &Room{
		ID:     id,
		Status: StatusActive,
		Seats: []*Seat{
			r.seat(a, SlotPlayer1, game.SymbolX),
			r.seat(b, SlotPlayer2, game.SymbolO),
		},
		State:     game.NewState(),
		CreatedAt: now,
		StartedAt: now,
	}
	r.rooms[id] = room

	r.gateway.SaveRoom(RoomRecord{
		RoomID:          id,
		Status:          StatusActive,
		CreatedByUserID: a.UserID,
		CreatedAt:       now,
		StartedAt:       now,
	})
	for _, s := range room.Seats {
		r.gateway.SaveSeat(seatRecord(id, s))
	}
	r.gateway.MirrorRoom(room.Snapshot())
	return room, nil
}

// JoinRoom seats the joiner as player2/O and starts the game. A failed join
// leaves the room untouched.
func (r *RoomRegistry) JoinRoom(roomID string, joiner Participant) (*Room, error) {
	room, ok := r.rooms[NormalizeRoomID(roomID)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Full() {
		return nil, ErrRoomFull
	}

	seat := r.seat(joiner, SlotPlayer2, game.SymbolO)
	room.Seats = append(room.Seats, seat)
	room.Status = StatusActive
	room.StartedAt = r.now()

	r.gateway.SaveSeat(seatRecord(room.ID, seat))
	r.gateway.UpdateRoomStatus(room.ID, StatusActive, game.Empty)
	r.gateway.MirrorRoom(room.Snapshot())
	return room, nil
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Room   *Room
	Mover  game.Symbol
	Winner game.Symbol
}

// ApplyMove replaces the room's state with next. In strict mode the move must
// come from the seat whose turn it is and be legal from the current state.
// Stats are recorded once, when a move first completes a line.
func (r *RoomRegistry) ApplyMove(roomID, connID string, next game.State) (MoveResult, error) {
	room, ok := r.rooms[NormalizeRoomID(roomID)]
	if !ok {
		return MoveResult{}, ErrRoomNotFound
	}

	if r.mode != ValidationTrust {
		if room.Status != StatusActive {
			return MoveResult{}, ErrRoomNotActive
		}
		seat, seated := room.SeatOf(connID)
		if !seated {
			return MoveResult{}, ErrNotSeated
		}
		if seat.Symbol != room.State.CurrentPlayer {
			return MoveResult{}, ErrNotYourTurn
		}
		if err := game.ValidateTransition(room.State, next); err != nil {
			return MoveResult{}, err
		}
	}

	mover := game.SymbolX
	if next.CurrentPlayer == game.SymbolX {
		mover = game.SymbolO
	}

	room.State = next
	room.MoveCount++
	r.gateway.SaveMove(MoveRecord{
		RoomID:     room.ID,
		MoveNumber: room.MoveCount,
		Symbol:     mover,
		Board:      next.Board,
		Phase:      next.GamePhase,
		Timestamp:  r.now(),
	})

	result := MoveResult{Room: room, Mover: mover}
	if winner := game.DetectWinner(next.Board); winner != game.Empty && room.Status != StatusFinished {
		room.Status = StatusFinished
		room.Winner = winner
		result.Winner = winner
		r.gateway.UpdateRoomStatus(room.ID, StatusFinished, winner)
		for _, s := range room.Seats {
			r.gateway.UpdateUserStats(s.UserID, s.Symbol == winner)
		}
	}
	r.gateway.MirrorRoom(room.Snapshot())
	return result, nil
}

// RemoveBySeat tears down the room holding a seat bound to connID and
// returns it together with the remaining seat, if any.
func (r *RoomRegistry) RemoveBySeat(connID string) (*Room, *Seat, bool) {
	for id, room := range r.rooms {
		if _, seated := room.SeatOf(connID); !seated {
			continue
		}
		delete(r.rooms, id)
		if room.Status != StatusFinished {
			room.Status = StatusAbandoned
			r.gateway.UpdateRoomStatus(id, StatusAbandoned, game.Empty)
		}
		r.gateway.ForgetRoom(id)
		other, _ := room.Opponent(connID)
		return room, other, true
	}
	return nil, nil, false
}

// RoomOf returns the room holding a seat bound to connID.
func (r *RoomRegistry) RoomOf(connID string) (*Room, bool) {
	for _, room := range r.rooms {
		if _, seated := room.SeatOf(connID); seated {
			return room, true
		}
	}
	return nil, false
}

func (r *RoomRegistry) Get(roomID string) (*Room, bool) {
	room, ok := r.rooms[NormalizeRoomID(roomID)]
	return room, ok
}

func (r *RoomRegistry) Len() int {
	return len(r.rooms)
}

// Rooms lists live rooms ordered by creation time.
func (r *RoomRegistry) Rooms() []*Room {
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
	return rooms
}
