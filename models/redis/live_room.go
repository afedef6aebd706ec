package redis

import "Morris/services/game"

type LivePlayer struct {
	UserID       string      `json:"user_id"`
	Username     string      `json:"username"`
	PlayerID     string      `json:"player_id"`
	PlayerSymbol game.Symbol `json:"player_symbol"`
}

// LiveRoom mirrors an in-memory room so it can be inspected from outside the
// process that owns it
type LiveRoom struct {
	RoomID        string            `json:"room_id"`
	Status        string            `json:"status"`
	Players       []LivePlayer      `json:"players"`
	Board         game.Board        `json:"board"`
	CurrentPlayer game.Symbol       `json:"current_player"`
	GamePhase     game.Phase        `json:"game_phase"`
	PiecesPlaced  game.PiecesPlaced `json:"pieces_placed"`
	MoveCount     int               `json:"move_count"`
	Winner        game.Symbol       `json:"winner,omitempty"`
	UpdatedAt     int64             `json:"updated_at"` // Unix timestamp
}
