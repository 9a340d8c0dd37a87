package rules

import "github.com/tmaxey/gridduel/game/board"

// Quick boolean variants of the hot checks, for editor feedback on every
// keystroke. Each mirrors one Validate check without building message
// strings; the full Validate run remains the authority before play.

// PieceOK reports whether the board has its one piece where it belongs:
// at least one piece move while the piece is on the board, and no move of
// any kind ordered after a final.
func PieceOK(b *board.Board) bool {
	if final, ok := earliestFinal(b); ok {
		for _, m := range b.Moves {
			if m.Order > final.Order {
				return false
			}
		}
		return true
	}
	return len(b.PieceMoves()) > 0
}

// TrapCountOK reports whether the board stays within the trap budget.
func TrapCountOK(b *board.Board) bool {
	return len(b.TrapMoves()) <= board.MaxTraps
}

// MoveCountOK reports whether the move list length is within bounds.
func MoveCountOK(b *board.Board) bool {
	n := len(b.Moves)
	return n >= board.MinMoves && n <= board.MaxMoves
}

// OrdersOK reports whether move orders are exactly 1..len(moves). Unique
// orders inside [1, N] are necessarily the full sequence.
func OrdersOK(b *board.Board) bool {
	seen := make(map[int]bool, len(b.Moves))
	for _, m := range b.Moves {
		if m.Order < 1 || m.Order > len(b.Moves) || seen[m.Order] {
			return false
		}
		seen[m.Order] = true
	}
	return true
}
