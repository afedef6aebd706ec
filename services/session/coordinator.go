package session

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"Morris/services/game"

	"github.com/gin-gonic/gin"
)

// Inbound events.
const (
	EventAuthenticate     = "authenticate"
	EventCreateRoom       = "createRoom"
	EventJoinMatchmaking  = "joinMatchmaking"
	EventLeaveMatchmaking = "leaveMatchmaking"
	EventJoinRoom         = "joinRoom"
	EventMakeMove         = "makeMove"
)

// Outbound events.
const (
	EventMatchmakingJoined = "matchmakingJoined"
	EventMatchmakingLeft   = "matchmakingLeft"
	EventMatchFound        = "matchFound"
	EventRoomCreated       = "roomCreated"
	EventRoomJoined        = "roomJoined"
	EventOpponentJoined    = "opponentJoined"
	EventGameStart         = "gameStart"
	EventMoveMade          = "moveMade"
	EventPlayerLeft        = "playerLeft"
	EventError             = "error"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAlreadyQueued    = errors.New("already in matchmaking")
	ErrMissingUserID    = errors.New("missing user id")
)

type AuthenticateRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type JoinRoomRequest struct {
	RoomID string `json:"roomId"`
}

type MoveRequest struct {
	RoomID        string            `json:"roomId"`
	Board         game.Board        `json:"board"`
	CurrentPlayer game.Symbol       `json:"currentPlayer"`
	GamePhase     game.Phase        `json:"gamePhase"`
	PiecesPlaced  game.PiecesPlaced `json:"piecesPlaced"`
	AnimateCell   *int              `json:"animateCell,omitempty"`
}

func (m MoveRequest) State() game.State {
	return game.State{
		Board:         m.Board,
		CurrentPlayer: m.CurrentPlayer,
		GamePhase:     m.GamePhase,
		PiecesPlaced:  m.PiecesPlaced,
	}
}

// Coordinator turns transport events into registry operations and pushes the
// results back to the connections involved. Each event runs to completion
// under a single lock, so events are applied one at a time in arrival order.
type Coordinator struct {
	mu      sync.Mutex
	conns   *ConnectionRegistry
	queue   *MatchmakingQueue
	rooms   *RoomRegistry
	gateway Gateway
	now     func() time.Time
}

func NewCoordinator(gateway Gateway, opts ...RegistryOption) *Coordinator {
	if gateway == nil {
		gateway = NopGateway{}
	}
	rooms := NewRoomRegistry(gateway, opts...)
	return &Coordinator{
		conns:   NewConnectionRegistry(),
		queue:   NewMatchmakingQueue(),
		rooms:   rooms,
		gateway: gateway,
		now:     rooms.now,
	}
}

// Authenticate binds conn to the claimed user.
func (c *Coordinator) Authenticate(conn Conn, req AuthenticateRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		log.Printf("[AUTH-ERROR] Socket %s sent authenticate without a user id", conn.ID())
		emitError(conn, ErrMissingUserID)
		return
	}
	c.conns.Authenticate(conn, Identity{UserID: userID, Username: req.Username})
	c.trackPresence(conn, Identity{UserID: userID, Username: req.Username}, PresenceOnline, "")
	log.Printf("[AUTH] Socket %s authenticated as user %s", conn.ID(), userID)
}

// CreateRoom opens a private room owned by the caller.
func (c *Coordinator) CreateRoom(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.idle(conn)
	if err != nil {
		log.Printf("[ROOM-ERROR] createRoom from socket %s: %v", conn.ID(), err)
		emitError(conn, err)
		return
	}

	room, err := c.rooms.CreateRoom(Participant{Conn: conn, UserID: id.UserID, Username: id.Username})
	if err != nil {
		log.Printf("[ROOM-ERROR] Could not create room for user %s: %v", id.UserID, err)
		emitError(conn, err)
		return
	}
	seat := room.Seats[0]
	c.trackPresence(conn, id, PresencePlaying, room.ID)
	log.Printf("[ROOM] Private room %s created by user %s", room.ID, id.UserID)

	conn.Emit(EventRoomCreated, gin.H{
		"roomId":       room.ID,
		"playerId":     seat.PlayerID,
		"playerSymbol": seat.Symbol,
	})
}

// JoinMatchmaking queues the caller and pairs the oldest waiting users.
func (c *Coordinator) JoinMatchmaking(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.conns.IdentityOf(conn)
	if !ok {
		emitError(conn, ErrNotAuthenticated)
		return
	}
	if room, released := c.releaseSeat(conn); released {
		log.Printf("[MATCH] User %s left room %s to join matchmaking", id.UserID, room.ID)
	}

	position, added := c.queue.Enqueue(WaitingEntry{UserID: id.UserID, Username: id.Username, Conn: conn})
	if !added {
		log.Printf("[MATCH] User %s is already in the matchmaking queue", id.UserID)
		return
	}
	c.trackPresence(conn, id, PresenceQueued, "")
	log.Printf("[MATCH] User %s joined matchmaking. Queue size: %d", id.UserID, c.queue.Len())
	conn.Emit(EventMatchmakingJoined, gin.H{"position": position})

	c.pairWaiting()
}

func (c *Coordinator) pairWaiting() {
	for {
		a, b, ok := c.queue.DequeuePair()
		if !ok {
			return
		}
		room, err := c.rooms.CreateMatchedRoom(
			Participant{Conn: a.Conn, UserID: a.UserID, Username: a.Username},
			Participant{Conn: b.Conn, UserID: b.UserID, Username: b.Username},
		)
		if err != nil {
			log.Printf("[MATCH-ERROR] Could not open a room for %s and %s: %v", a.UserID, b.UserID, err)
			emitError(a.Conn, err)
			emitError(b.Conn, err)
			continue
		}
		log.Printf("[MATCH] Paired %s and %s in room %s", a.UserID, b.UserID, room.ID)

		for _, s := range room.Seats {
			opponent, _ := room.Opponent(s.Conn.ID())
			c.trackPresence(s.Conn, Identity{UserID: s.UserID, Username: s.Username}, PresencePlaying, room.ID)
			s.Conn.Emit(EventMatchFound, gin.H{
				"roomId":       room.ID,
				"playerId":     s.PlayerID,
				"playerSymbol": s.Symbol,
				"opponent":     opponent.Username,
			})
		}
		c.broadcast(room, EventGameStart, gin.H{"currentPlayer": room.State.CurrentPlayer})
	}
}

// LeaveMatchmaking removes the caller from the queue.
func (c *Coordinator) LeaveMatchmaking(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.conns.IdentityOf(conn)
	if !ok {
		return
	}
	if !c.queue.Remove(id.UserID) {
		return
	}
	c.trackPresence(conn, id, PresenceOnline, "")
	log.Printf("[MATCH] User %s left matchmaking. Queue size: %d", id.UserID, c.queue.Len())
	conn.Emit(EventMatchmakingLeft, gin.H{})
}

// JoinRoom seats the caller in a waiting room and starts the game.
func (c *Coordinator) JoinRoom(conn Conn, req JoinRoomRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.idle(conn)
	if err != nil {
		log.Printf("[JOIN-ERROR] joinRoom from socket %s: %v", conn.ID(), err)
		emitError(conn, err)
		return
	}

	roomID := NormalizeRoomID(req.RoomID)
	room, err := c.rooms.JoinRoom(roomID, Participant{Conn: conn, UserID: id.UserID, Username: id.Username})
	if err != nil {
		log.Printf("[JOIN-ERROR] User %s could not join room %s: %v", id.UserID, roomID, err)
		emitError(conn, err)
		return
	}
	seat, _ := room.SeatOf(conn.ID())
	creator := room.Seats[0]
	c.trackPresence(conn, id, PresencePlaying, room.ID)
	log.Printf("[JOIN] User %s joined room %s", id.UserID, room.ID)

	conn.Emit(EventRoomJoined, gin.H{
		"roomId":       room.ID,
		"playerId":     seat.PlayerID,
		"playerSymbol": seat.Symbol,
		"opponent":     creator.Username,
	})
	creator.Conn.Emit(EventOpponentJoined, gin.H{"opponent": id.Username})
	c.broadcast(room, EventGameStart, gin.H{"currentPlayer": room.State.CurrentPlayer})
}

// MakeMove applies a submitted position and broadcasts it to the room.
func (c *Coordinator) MakeMove(conn Conn, req MoveRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.rooms.ApplyMove(req.RoomID, conn.ID(), req.State())
	if err != nil {
		log.Printf("[MOVE-ERROR] Move rejected in room %s from socket %s: %v", req.RoomID, conn.ID(), err)
		emitError(conn, err)
		return
	}
	room := result.Room
	log.Printf("[MOVE] Move #%d by %s in room %s", room.MoveCount, result.Mover, room.ID)
	if result.Winner != game.Empty {
		log.Printf("[MOVE] Winner detected in room %s: %s", room.ID, result.Winner)
	}

	payload := gin.H{
		"board":         room.State.Board,
		"currentPlayer": room.State.CurrentPlayer,
		"gamePhase":     room.State.GamePhase,
		"piecesPlaced":  room.State.PiecesPlaced,
	}
	if req.AnimateCell != nil {
		payload["animateCell"] = *req.AnimateCell
	}
	c.broadcast(room, EventMoveMade, payload)
}

// Disconnect releases everything the connection held: its user binding, its
// queue entry and its room.
func (c *Coordinator) Disconnect(conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, known := c.conns.Forget(conn)
	log.Printf("[DISCONNECT] Socket %s disconnected (user %q)", conn.ID(), id.UserID)

	if c.queue.RemoveConn(conn.ID()) {
		log.Printf("[DISCONNECT] Removed user %s from the matchmaking queue", id.UserID)
	}

	if room, ok := c.releaseSeat(conn); ok {
		log.Printf("[DISCONNECT] Room %s torn down", room.ID)
	}

	if known {
		if _, stillConnected := c.conns.Lookup(id.UserID); !stillConnected {
			c.gateway.ForgetPresence(id.UserID)
		}
	}
}

// idle returns the caller's identity once it is authenticated and holds no
// queue entry. A seat left over from an earlier room is released first, so
// the connection ends up with at most one seat.
func (c *Coordinator) idle(conn Conn) (Identity, error) {
	id, ok := c.conns.IdentityOf(conn)
	if !ok {
		return Identity{}, ErrNotAuthenticated
	}
	if c.queue.Contains(id.UserID) {
		return Identity{}, ErrAlreadyQueued
	}
	if room, released := c.releaseSeat(conn); released {
		log.Printf("[ROOM] User %s left room %s", id.UserID, room.ID)
		c.trackPresence(conn, id, PresenceOnline, "")
	}
	return id, nil
}

// releaseSeat tears down the room holding the connection's seat. The other
// seat, if any, is told with playerLeft and goes back to online.
func (c *Coordinator) releaseSeat(conn Conn) (*Room, bool) {
	room, other, ok := c.rooms.RemoveBySeat(conn.ID())
	if !ok {
		return nil, false
	}
	if other != nil {
		other.Conn.Emit(EventPlayerLeft, gin.H{})
		if _, bound := c.conns.IdentityOf(other.Conn); bound {
			c.trackPresence(other.Conn, Identity{UserID: other.UserID, Username: other.Username}, PresenceOnline, "")
		}
	}
	return room, true
}

func (c *Coordinator) broadcast(room *Room, event string, payload any) {
	for _, s := range room.Seats {
		s.Conn.Emit(event, payload)
	}
}

func (c *Coordinator) trackPresence(conn Conn, id Identity, status PresenceStatus, roomID string) {
	c.gateway.TrackPresence(Presence{
		UserID:   id.UserID,
		Username: id.Username,
		Status:   status,
		SocketID: conn.ID(),
		RoomID:   roomID,
		LastSeen: c.now(),
	})
}

// Stats is a point-in-time summary of the live session state.
type Stats struct {
	ActiveRooms      int `json:"activeRooms"`
	MatchmakingQueue int `json:"matchmakingQueue"`
	ConnectedUsers   int `json:"connectedUsers"`
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		ActiveRooms:      c.rooms.Len(),
		MatchmakingQueue: c.queue.Len(),
		ConnectedUsers:   c.conns.Count(),
	}
}

type RoomSummary struct {
	RoomID    string     `json:"roomId"`
	Status    RoomStatus `json:"status"`
	Players   int        `json:"players"`
	GamePhase game.Phase `json:"gamePhase"`
	MoveCount int        `json:"moveCount"`
}

// LiveRooms lists the rooms currently held in memory.
func (c *Coordinator) LiveRooms() []RoomSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := c.rooms.Rooms()
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, RoomSummary{
			RoomID:    r.ID,
			Status:    r.Status,
			Players:   len(r.Seats),
			GamePhase: r.State.GamePhase,
			MoveCount: r.MoveCount,
		})
	}
	return out
}

var errorMessages = map[error]string{
	ErrNotAuthenticated: "Not authenticated",
	ErrMissingUserID:    "Missing user id",
	ErrAlreadyQueued:    "Already in matchmaking",
	ErrRoomNotFound:     "Room not found",
	ErrRoomFull:         "Room is full",
	ErrRoomNotActive:    "Game is not in progress",
	ErrNotSeated:        "You are not seated in this room",
	ErrNotYourTurn:      "Not your turn",
	ErrRoomIDExhausted:  "Could not create a room, try again",
}

// ErrorMessage returns the text sent to clients for err.
func ErrorMessage(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	if errors.Is(err, game.ErrIllegalMove) || errors.Is(err, game.ErrInvalidBoard) {
		return "Invalid move: " + err.Error()
	}
	return "Unexpected error"
}

func emitError(conn Conn, err error) {
	conn.Emit(EventError, gin.H{"message": ErrorMessage(err)})
}
