package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board(cells string) Board {
	var b Board
	for i, c := range cells {
		switch c {
		case 'X':
			b[i] = SymbolX
		case 'O':
			b[i] = SymbolO
		}
	}
	return b
}

func TestDetectWinner(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  Symbol
	}{
		{"empty board", ".........", Empty},
		{"full board without a line", "XOXXOOOXX", Empty},
		{"top row", "XXX.O.O..", SymbolX},
		{"middle row", "X..OOOX.X", SymbolO},
		{"bottom row", "O.O.O.XXX", SymbolX},
		{"left column", "O..O..OXX", SymbolO},
		{"middle column", ".X..X..XO", SymbolX},
		{"right column", "..O.XOX.O", SymbolO},
		{"main diagonal", "X.O.X.O.X", SymbolX},
		{"anti diagonal", "X.O.O.OX.", SymbolO},
		{"two in a row only", "XX.OO....", Empty},
		{"rows win over columns on illegal boards", "OOOXXX...", SymbolO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectWinner(board(tt.board)))
		})
	}
}

func TestDetectWinnerEveryLine(t *testing.T) {
	for _, line := range winningLines {
		for _, s := range []Symbol{SymbolX, SymbolO} {
			var b Board
			for _, i := range line {
				b[i] = s
			}
			assert.Equal(t, s, DetectWinner(b), "line %v", line)
		}
	}
}

func TestIsAdjacent(t *testing.T) {
	assert.True(t, IsAdjacent(4, 0))
	assert.True(t, IsAdjacent(4, 8))
	assert.True(t, IsAdjacent(0, 1))
	assert.True(t, IsAdjacent(0, 3))
	assert.True(t, IsAdjacent(2, 4))
	assert.True(t, IsAdjacent(7, 6))

	assert.False(t, IsAdjacent(0, 0), "same cell")
	assert.False(t, IsAdjacent(0, 2), "two columns apart")
	assert.False(t, IsAdjacent(0, 6), "two rows apart")
	assert.False(t, IsAdjacent(2, 3), "wraps to the next row")
	assert.False(t, IsAdjacent(0, 8))
	assert.False(t, IsAdjacent(-1, 0))
	assert.False(t, IsAdjacent(8, 9))

	// the centre touches every other cell
	for i := 0; i < TotalCells; i++ {
		if i != 4 {
			assert.True(t, IsAdjacent(4, i), "cell %d", i)
		}
	}
}

func TestValidateTransitionPlacement(t *testing.T) {
	prev := NewState()
	next := State{
		Board:         board("....X...."),
		CurrentPlayer: SymbolO,
		GamePhase:     PhasePlacement,
		PiecesPlaced:  PiecesPlaced{X: 1},
	}
	require.NoError(t, ValidateTransition(prev, next))

	t.Run("turn must pass", func(t *testing.T) {
		bad := next
		bad.CurrentPlayer = SymbolX
		assert.ErrorIs(t, ValidateTransition(prev, bad), ErrIllegalMove)
	})

	t.Run("opponent piece", func(t *testing.T) {
		bad := next
		bad.Board = board("....O....")
		assert.ErrorIs(t, ValidateTransition(prev, bad), ErrIllegalMove)
	})

	t.Run("two pieces at once", func(t *testing.T) {
		bad := next
		bad.Board = board("X...X....")
		assert.ErrorIs(t, ValidateTransition(prev, bad), ErrIllegalMove)
	})

	t.Run("count mismatch", func(t *testing.T) {
		bad := next
		bad.PiecesPlaced = PiecesPlaced{X: 2}
		assert.ErrorIs(t, ValidateTransition(prev, bad), ErrIllegalMove)
	})

	t.Run("overwriting an occupied cell", func(t *testing.T) {
		from := next
		to := State{
			Board:         board("....O...."),
			CurrentPlayer: SymbolX,
			GamePhase:     PhasePlacement,
			PiecesPlaced:  PiecesPlaced{X: 1, O: 1},
		}
		assert.ErrorIs(t, ValidateTransition(from, to), ErrIllegalMove)
	})

	t.Run("early movement phase", func(t *testing.T) {
		bad := next
		bad.GamePhase = PhaseMovement
		assert.ErrorIs(t, ValidateTransition(prev, bad), ErrIllegalMove)
	})

	t.Run("fourth piece on the board", func(t *testing.T) {
		from := State{
			Board:         board("XXOXO...."),
			CurrentPlayer: SymbolX,
			GamePhase:     PhasePlacement,
			PiecesPlaced:  PiecesPlaced{X: 2, O: 2},
		}
		to := State{
			Board:         board("XXOXO.X.."),
			CurrentPlayer: SymbolO,
			GamePhase:     PhasePlacement,
			PiecesPlaced:  PiecesPlaced{X: 3, O: 2},
		}
		err := ValidateTransition(from, to)
		assert.ErrorIs(t, err, ErrIllegalMove)
		assert.Contains(t, err.Error(), "4 pieces")
	})
}

func TestValidateTransitionPhaseFlip(t *testing.T) {
	prev := State{
		Board:         board("XX.OO.X.."),
		CurrentPlayer: SymbolO,
		GamePhase:     PhasePlacement,
		PiecesPlaced:  PiecesPlaced{X: 3, O: 2},
	}
	next := State{
		Board:         board("XX.OO.X.O"),
		CurrentPlayer: SymbolX,
		GamePhase:     PhaseMovement,
		PiecesPlaced:  PiecesPlaced{X: 3, O: 3},
	}
	require.NoError(t, ValidateTransition(prev, next))

	stay := next
	stay.GamePhase = PhasePlacement
	assert.ErrorIs(t, ValidateTransition(prev, stay), ErrIllegalMove)
}

func TestValidateTransitionMovement(t *testing.T) {
	prev := State{
		Board:         board("XX.OO.X.O"),
		CurrentPlayer: SymbolX,
		GamePhase:     PhaseMovement,
		PiecesPlaced:  PiecesPlaced{X: 3, O: 3},
	}

	t.Run("adjacent relocation", func(t *testing.T) {
		next := prev
		next.Board = board("X.XOO.X.O")
		next.CurrentPlayer = SymbolO
		assert.NoError(t, ValidateTransition(prev, next))
	})

	t.Run("diagonal relocation", func(t *testing.T) {
		next := prev
		next.Board = board("X..OOXX.O")
		next.CurrentPlayer = SymbolO
		assert.NoError(t, ValidateTransition(prev, next))
	})

	t.Run("not adjacent", func(t *testing.T) {
		next := prev
		next.Board = board(".X.OOXX.O")
		next.CurrentPlayer = SymbolO
		assert.ErrorIs(t, ValidateTransition(prev, next), ErrIllegalMove)
	})

	t.Run("new piece instead of a move", func(t *testing.T) {
		next := prev
		next.Board = board("XXXOO.X.O")
		next.CurrentPlayer = SymbolO
		assert.ErrorIs(t, ValidateTransition(prev, next), ErrIllegalMove)
	})

	t.Run("back to placement", func(t *testing.T) {
		next := prev
		next.Board = board("X.XOO.X.O")
		next.CurrentPlayer = SymbolO
		next.GamePhase = PhasePlacement
		assert.ErrorIs(t, ValidateTransition(prev, next), ErrIllegalMove)
	})
}

func TestBoardJSON(t *testing.T) {
	b := board("X...O....")
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `["X",null,null,null,"O",null,null,null,null]`, string(data))

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)

	assert.ErrorIs(t, json.Unmarshal([]byte(`["X",null]`), &decoded), ErrInvalidBoard)
	assert.ErrorIs(t, json.Unmarshal([]byte(`["Z",null,null,null,null,null,null,null,null]`), &decoded), ErrInvalidBoard)
}
