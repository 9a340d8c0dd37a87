// Package board defines the shared data model for gridduel boards.
//
// A board is one player's authored side of a round: an N x N grid, the
// ordered move list that produced it (piece steps, trap drops, and an
// optional final exit), and identity metadata. The grid is always a pure
// rendering of the move list via PaintGrid; code that edits moves calls
// Repaint rather than mutating cells directly.
//
// Coordinates:
//
// Positions are row,col with row 0 at the top of the author's own view. Each
// author plays toward row 0 and exits onto the virtual row GoalRow (-1). The
// two authors face each other, so combining their boards requires mapping one
// side's coordinates through Rotate, the single 180-degree rotation both the
// simulator and any coordinate-mapping caller must share.
//
// Usage:
//
//	b := board.New("Opening Gambit", 5)
//	b.Moves = []board.Move{
//		{Position: board.Position{Row: 4, Col: 0}, Type: board.MovePiece, Order: 1},
//		{Position: board.Position{Row: 3, Col: 0}, Type: board.MovePiece, Order: 2},
//		{Position: board.Position{Row: 2, Col: 2}, Type: board.MoveTrap, Order: 3},
//	}
//	b.Repaint()
//
// The package is pure: no I/O, no logging, no locking. Boards are plain data
// and may be shared across goroutines once construction is done.
package board
