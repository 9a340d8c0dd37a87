package rules

import (
	"fmt"
	"sort"

	"github.com/tmaxey/gridduel/game/board"
)

// Result captures the outcome of validating a single board. When Valid is
// false, Errors accumulates every rule the board breaks; validation never
// stops at the first failure so an editor can show the full list at once.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a board against every authoring rule. All checks run
// independently; a board can fail several at once. A Valid result is the
// gate the simulator and the challenge flow rely on.
func Validate(b *board.Board) Result {
	result := Result{Valid: true, Errors: []string{}}
	fail := func(format string, args ...any) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
	}

	// Envelope: size and grid shape.
	if b.Size < board.MinSize || b.Size > board.MaxSize {
		fail("Board size %d out of range [%d, %d]", b.Size, board.MinSize, board.MaxSize)
	}
	gridShaped := len(b.Grid) == b.Size
	if !gridShaped {
		fail("Grid has %d rows, expected %d", len(b.Grid), b.Size)
	}
	for r, row := range b.Grid {
		if len(row) != b.Size {
			fail("Grid row %d has %d cells, expected %d", r, len(row), b.Size)
			gridShaped = false
		}
	}

	// Check 1: exactly one piece, and once it exits nothing may follow.
	if final, ok := earliestFinal(b); ok {
		for _, m := range b.Moves {
			if m.Order > final.Order {
				fail("Piece has exited: move %d comes after the final move", m.Order)
			}
		}
	} else if len(b.PieceMoves()) == 0 {
		fail("Board has no piece: add at least one piece move")
	}

	// Check 2: trap budget.
	if traps := len(b.TrapMoves()); traps > board.MaxTraps {
		fail("Too many traps: %d (maximum %d)", traps, board.MaxTraps)
	}

	// Check 3: move budget.
	if n := len(b.Moves); n < board.MinMoves || n > board.MaxMoves {
		fail("Move count %d out of range [%d, %d]", n, board.MinMoves, board.MaxMoves)
	}

	// Check 4: every move occupies its own cell. A self-crossing path or a
	// trap dropped on the path paints fewer cells than there are moves.
	finals := 0
	for _, m := range b.Moves {
		if m.Type == board.MoveFinal {
			finals++
		}
	}
	occupied := board.CountCells(b.Grid, board.Piece) + board.CountCells(b.Grid, board.Trap) + finals
	if occupied != len(b.Moves) {
		fail("Moves do not map to distinct cells: %d moves but %d occupied cells", len(b.Moves), occupied)
	}

	// Check 5: orders are unique and run 1..N.
	orders := make([]int, 0, len(b.Moves))
	seen := make(map[int]bool, len(b.Moves))
	for _, m := range b.Moves {
		if seen[m.Order] {
			fail("Duplicate move order %d", m.Order)
		}
		seen[m.Order] = true
		orders = append(orders, m.Order)
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			fail("Move orders must run 1..%d: expected %d, found %d", len(orders), i+1, o)
			break
		}
	}

	// Check 6: each move corresponds to its grid cell. Final moves are
	// virtual and only need to sit on the goal row.
	for _, m := range b.Moves {
		switch m.Type {
		case board.MoveFinal:
			if !m.Position.AtGoal() {
				fail("Final move must sit on the goal row, got row %d", m.Position.Row)
			}
		case board.MovePiece, board.MoveTrap:
			if !m.Position.InBounds(b.Size) {
				fail("Move %d out of bounds at (%d,%d)", m.Order, m.Position.Row, m.Position.Col)
				continue
			}
			want := board.Piece
			if m.Type == board.MoveTrap {
				want = board.Trap
			}
			if got := cellAt(b.Grid, m.Position); got != want {
				fail("Move %d expects %s at (%d,%d), grid holds %q", m.Order, m.Type, m.Position.Row, m.Position.Col, got)
			}
		default:
			fail("Move %d has unknown type %q", m.Order, m.Type)
		}
	}

	// Envelope: the grid must be a pure rendering of the move list.
	if gridShaped && b.Size >= board.MinSize && b.Size <= board.MaxSize {
		painted := board.PaintGrid(b.Moves, b.Size)
	mismatch:
		for r := range painted {
			for c := range painted[r] {
				if b.Grid[r][c] != painted[r][c] {
					fail("Grid does not match the move list, first mismatch at (%d,%d)", r, c)
					break mismatch
				}
			}
		}
	}

	return result
}

// earliestFinal returns the final move with the lowest order. With more than
// one final on a board, every later one counts as a move after the exit.
func earliestFinal(b *board.Board) (board.Move, bool) {
	var best board.Move
	found := false
	for _, m := range b.Moves {
		if m.Type != board.MoveFinal {
			continue
		}
		if !found || m.Order < best.Order {
			best = m
			found = true
		}
	}
	return best, found
}

func cellAt(grid [][]board.CellContent, p board.Position) board.CellContent {
	if p.Row < 0 || p.Row >= len(grid) || p.Col < 0 || p.Col >= len(grid[p.Row]) {
		return board.Empty
	}
	return grid[p.Row][p.Col]
}
