package session

import (
	"sync"

	"Morris/services/game"

	"github.com/gin-gonic/gin"
)

type emitted struct {
	Event   string
	Payload gin.H
}

type fakeConn struct {
	id     string
	mu     sync.Mutex
	events []emitted
}

func newConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Emit(event string, payload any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, _ := payload.(gin.H)
	c.events = append(c.events, emitted{Event: event, Payload: h})
}

// received returns the payloads of every emit of event, in order.
func (c *fakeConn) received(event string) []gin.H {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []gin.H
	for _, e := range c.events {
		if e.Event == event {
			out = append(out, e.Payload)
		}
	}
	return out
}

func (c *fakeConn) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Event)
	}
	return out
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

type statusUpdate struct {
	RoomID string
	Status RoomStatus
	Winner game.Symbol
}

type statsUpdate struct {
	UserID string
	Won    bool
}

type recordingGateway struct {
	mu        sync.Mutex
	rooms     []RoomRecord
	seats     []SeatRecord
	statuses  []statusUpdate
	moves     []MoveRecord
	stats     []statsUpdate
	mirrors   []RoomSnapshot
	forgotten []string
	presence  []Presence
	offline   []string
}

func (g *recordingGateway) SaveRoom(rec RoomRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rooms = append(g.rooms, rec)
}

func (g *recordingGateway) SaveSeat(rec SeatRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seats = append(g.seats, rec)
}

func (g *recordingGateway) UpdateRoomStatus(roomID string, status RoomStatus, winner game.Symbol) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses = append(g.statuses, statusUpdate{RoomID: roomID, Status: status, Winner: winner})
}

func (g *recordingGateway) SaveMove(rec MoveRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.moves = append(g.moves, rec)
}

func (g *recordingGateway) UpdateUserStats(userID string, won bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stats = append(g.stats, statsUpdate{UserID: userID, Won: won})
}

func (g *recordingGateway) MirrorRoom(snap RoomSnapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mirrors = append(g.mirrors, snap)
}

func (g *recordingGateway) ForgetRoom(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forgotten = append(g.forgotten, roomID)
}

func (g *recordingGateway) TrackPresence(p Presence) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.presence = append(g.presence, p)
}

func (g *recordingGateway) ForgetPresence(userID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.offline = append(g.offline, userID)
}

// sequence returns an id generator yielding ids in order, then repeating the last.
func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

// parseBoard reads a 9 character board, '.' marking an empty cell.
func parseBoard(cells string) game.Board {
	var b game.Board
	for i, c := range cells {
		switch c {
		case 'X':
			b[i] = game.SymbolX
		case 'O':
			b[i] = game.SymbolO
		}
	}
	return b
}

// placement builds the request for a placement move that leaves next to play.
func placement(roomID, cells string, next game.Symbol) MoveRequest {
	b := parseBoard(cells)
	placed := game.PiecesPlaced{X: b.Count(game.SymbolX), O: b.Count(game.SymbolO)}
	return MoveRequest{
		RoomID:        roomID,
		Board:         b,
		CurrentPlayer: next,
		GamePhase:     game.PhaseFor(placed),
		PiecesPlaced:  placed,
	}
}
