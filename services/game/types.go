package game

import (
	"encoding/json"
	"fmt"
)

// Symbol identifies the pieces of one side. The empty symbol marks an empty cell.
type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"
	Empty   Symbol = ""
)

// Opponent returns the other side's symbol.
func (s Symbol) Opponent() Symbol {
	switch s {
	case SymbolX:
		return SymbolO
	case SymbolO:
		return SymbolX
	}
	return Empty
}

func (s Symbol) Valid() bool {
	return s == SymbolX || s == SymbolO
}

type Phase string

const (
	PhasePlacement Phase = "placement"
	PhaseMovement  Phase = "movement"
)

const (
	BoardSize     = 3
	TotalCells    = BoardSize * BoardSize
	PiecesPerSide = 3
)

// Board holds the 9 cells of the grid, indexed row by row.
// Empty cells are encoded as JSON null.
type Board [TotalCells]Symbol

func (b Board) MarshalJSON() ([]byte, error) {
	cells := make([]*Symbol, TotalCells)
	for i := range b {
		if b[i] != Empty {
			s := b[i]
			cells[i] = &s
		}
	}
	return json.Marshal(cells)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []*Symbol
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if len(cells) != TotalCells {
		return fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, TotalCells, len(cells))
	}
	for i, c := range cells {
		if c == nil || *c == Empty {
			b[i] = Empty
			continue
		}
		if !c.Valid() {
			return fmt.Errorf("%w: unknown symbol %q at cell %d", ErrInvalidBoard, *c, i)
		}
		b[i] = *c
	}
	return nil
}

// Count returns how many cells hold the given symbol.
func (b Board) Count(s Symbol) int {
	n := 0
	for _, c := range b {
		if c == s {
			n++
		}
	}
	return n
}

// PiecesPlaced tracks how many pieces each side has put on the board
// during the placement phase.
type PiecesPlaced struct {
	X int `json:"X"`
	O int `json:"O"`
}

func (p PiecesPlaced) Of(s Symbol) int {
	if s == SymbolO {
		return p.O
	}
	return p.X
}

func (p PiecesPlaced) With(s Symbol, n int) PiecesPlaced {
	if s == SymbolO {
		p.O = n
	} else {
		p.X = n
	}
	return p
}

// State is the complete game position of a room.
type State struct {
	Board         Board        `json:"board"`
	CurrentPlayer Symbol       `json:"currentPlayer"`
	GamePhase     Phase        `json:"gamePhase"`
	PiecesPlaced  PiecesPlaced `json:"piecesPlaced"`
}

// NewState returns the opening position: empty board, X to move.
func NewState() State {
	return State{
		CurrentPlayer: SymbolX,
		GamePhase:     PhasePlacement,
	}
}
