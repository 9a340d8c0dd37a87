package board

// EmptyGrid allocates a size x size grid of empty cells.
func EmptyGrid(size int) [][]CellContent {
	grid := make([][]CellContent, size)
	for r := range grid {
		grid[r] = make([]CellContent, size)
		for c := range grid[r] {
			grid[r][c] = Empty
		}
	}
	return grid
}

// PaintGrid renders a move list onto a fresh grid. Every piece move's cell is
// painted first, then every trap move's cell over it; a final move is never
// painted. Out-of-bounds positions are skipped rather than rejected, so the
// painter stays total over unvalidated input.
func PaintGrid(moves []Move, size int) [][]CellContent {
	grid := EmptyGrid(size)
	for _, m := range moves {
		if m.Type == MovePiece && m.Position.InBounds(size) {
			grid[m.Position.Row][m.Position.Col] = Piece
		}
	}
	for _, m := range moves {
		if m.Type == MoveTrap && m.Position.InBounds(size) {
			grid[m.Position.Row][m.Position.Col] = Trap
		}
	}
	return grid
}

// Rotate maps a position into the 180-degree rotated frame of a size x size
// grid. Both players author facing "up"; rotating one board's coordinates
// puts the two in a single shared frame. Rotating the virtual goal row lands
// on row size, the off-grid exit at the far edge.
func Rotate(p Position, size int) Position {
	return Position{Row: size - 1 - p.Row, Col: size - 1 - p.Col}
}

// FlatIndex flattens a position to row*size+col.
func FlatIndex(p Position, size int) int {
	return p.Row*size + p.Col
}

// PositionAt is the inverse of FlatIndex.
func PositionAt(index, size int) Position {
	return Position{Row: index / size, Col: index % size}
}

// CountCells reports how many grid cells hold the given content.
func CountCells(grid [][]CellContent, content CellContent) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell == content {
				count++
			}
		}
	}
	return count
}
