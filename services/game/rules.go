package game

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrInvalidBoard = errors.New("invalid board")
)

// Rows, then columns, then diagonals. The order decides which symbol is
// reported when a (necessarily illegal) board aligns both sides.
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// DetectWinner returns the symbol occupying the first fully matched line,
// or Empty when no line is complete.
func DetectWinner(b Board) Symbol {
	for _, line := range winningLines {
		a := b[line[0]]
		if a != Empty && a == b[line[1]] && a == b[line[2]] {
			return a
		}
	}
	return Empty
}

// IsAdjacent reports whether two cells touch on the 3x3 grid, diagonals included.
func IsAdjacent(from, to int) bool {
	if from < 0 || from >= TotalCells || to < 0 || to >= TotalCells || from == to {
		return false
	}
	rowDiff := abs(from/BoardSize - to/BoardSize)
	colDiff := abs(from%BoardSize - to%BoardSize)
	return rowDiff <= 1 && colDiff <= 1
}

// PhaseFor returns the phase implied by the placed-piece counts.
func PhaseFor(p PiecesPlaced) Phase {
	if p.X >= PiecesPerSide && p.O >= PiecesPerSide {
		return PhaseMovement
	}
	return PhasePlacement
}

// ValidateTransition checks that next is the position reached from prev by
// one legal move of prev.CurrentPlayer. Errors wrap ErrIllegalMove.
func ValidateTransition(prev, next State) error {
	mover := prev.CurrentPlayer
	if !mover.Valid() {
		return fmt.Errorf("%w: no side to move", ErrIllegalMove)
	}
	if next.CurrentPlayer != mover.Opponent() {
		return fmt.Errorf("%w: turn must pass to %s", ErrIllegalMove, mover.Opponent())
	}

	var vacated, filled []int
	for i := range prev.Board {
		before, after := prev.Board[i], next.Board[i]
		if before == after {
			continue
		}
		switch {
		case before == mover && after == Empty:
			vacated = append(vacated, i)
		case before == Empty && after == mover:
			filled = append(filled, i)
		default:
			return fmt.Errorf("%w: cell %d cannot change from %q to %q", ErrIllegalMove, i, before, after)
		}
	}
	if len(filled) != 1 {
		return fmt.Errorf("%w: exactly one cell must be filled, got %d", ErrIllegalMove, len(filled))
	}

	switch prev.GamePhase {
	case PhasePlacement:
		if len(vacated) != 0 {
			return fmt.Errorf("%w: pieces cannot move during placement", ErrIllegalMove)
		}
		placed := prev.PiecesPlaced.Of(mover)
		if placed >= PiecesPerSide {
			return fmt.Errorf("%w: %s has no pieces left to place", ErrIllegalMove, mover)
		}
		want := prev.PiecesPlaced.With(mover, placed+1)
		if next.PiecesPlaced != want {
			return fmt.Errorf("%w: pieces placed must be X=%d O=%d", ErrIllegalMove, want.X, want.O)
		}
		if n := next.Board.Count(mover); n > PiecesPerSide || n != want.Of(mover) {
			return fmt.Errorf("%w: %s would have %d pieces on the board", ErrIllegalMove, mover, n)
		}
		if next.GamePhase != PhaseFor(want) {
			return fmt.Errorf("%w: phase must be %s", ErrIllegalMove, PhaseFor(want))
		}
	case PhaseMovement:
		if len(vacated) != 1 {
			return fmt.Errorf("%w: a move must relocate exactly one piece", ErrIllegalMove)
		}
		if !IsAdjacent(vacated[0], filled[0]) {
			return fmt.Errorf("%w: cell %d is not adjacent to %d", ErrIllegalMove, filled[0], vacated[0])
		}
		if next.PiecesPlaced != prev.PiecesPlaced {
			return fmt.Errorf("%w: pieces placed cannot change during movement", ErrIllegalMove)
		}
		if next.GamePhase != PhaseMovement {
			return fmt.Errorf("%w: phase cannot return to %s", ErrIllegalMove, next.GamePhase)
		}
	default:
		return fmt.Errorf("%w: unknown phase %q", ErrIllegalMove, prev.GamePhase)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
