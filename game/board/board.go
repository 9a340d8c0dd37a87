package board

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// CellContent represents what occupies a single grid cell.
type CellContent string

const (
	Empty CellContent = "empty"
	Piece CellContent = "piece"
	Trap  CellContent = "trap"

	// Board limits
	MinSize  = 2
	MaxSize  = 99
	MinMoves = 2
	MaxMoves = 8
	MaxTraps = 3

	// GoalRow is the virtual row just past the player's edge of the grid.
	// A final move sits on this row; it is never painted into the grid.
	GoalRow = -1
)

// MoveType represents the kind of a single authored move.
type MoveType string

const (
	MovePiece MoveType = "piece"
	MoveTrap  MoveType = "trap"
	MoveFinal MoveType = "final"
)

// Position represents row,col coordinates on a grid. Row GoalRow marks the
// virtual exit; Col then names the goal column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the position lies on a size x size grid.
func (p Position) InBounds(size int) bool {
	return p.Row >= 0 && p.Row < size && p.Col >= 0 && p.Col < size
}

// AtGoal reports whether the position sits on the virtual goal row.
func (p Position) AtGoal() bool {
	return p.Row == GoalRow
}

// Move represents one authored step: where, what kind, and its place in the
// board's ordering. Orders across a board run 1..len(moves).
type Move struct {
	Position Position `json:"position"`
	Type     MoveType `json:"type"`
	Order    int      `json:"order"`
}

// Board represents one player's authored board: the grid, the ordered moves
// that produced it, and identity metadata.
type Board struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Size      int             `json:"size"`
	Grid      [][]CellContent `json:"grid"`
	Moves     []Move          `json:"moves"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// New creates an empty board of the given size with a fresh identity.
func New(name string, size int) *Board {
	return &Board{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      size,
		Grid:      EmptyGrid(size),
		CreatedAt: time.Now(),
	}
}

// SortedMoves returns the board's moves in ascending order. The board's own
// slice is left untouched.
func (b *Board) SortedMoves() []Move {
	out := make([]Move, len(b.Moves))
	copy(out, b.Moves)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// PieceMoves returns the board's piece moves in authored order.
func (b *Board) PieceMoves() []Move {
	return b.movesOfType(MovePiece)
}

// TrapMoves returns the board's trap moves in authored order.
func (b *Board) TrapMoves() []Move {
	return b.movesOfType(MoveTrap)
}

func (b *Board) movesOfType(t MoveType) []Move {
	var out []Move
	for _, m := range b.SortedMoves() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// FinalMove returns the board's final move, if any.
func (b *Board) FinalMove() (Move, bool) {
	for _, m := range b.Moves {
		if m.Type == MoveFinal {
			return m, true
		}
	}
	return Move{}, false
}

// Repaint rebuilds the grid from the move list.
func (b *Board) Repaint() {
	b.Grid = PaintGrid(b.Moves, b.Size)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.Grid = make([][]CellContent, len(b.Grid))
	for i, row := range b.Grid {
		c.Grid[i] = make([]CellContent, len(row))
		copy(c.Grid[i], row)
	}
	c.Moves = make([]Move, len(b.Moves))
	copy(c.Moves, b.Moves)
	return &c
}
