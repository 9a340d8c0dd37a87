package generator

import (
	"fmt"
	"math/rand"

	"github.com/tmaxey/gridduel/game/board"
)

// Difficulty selects how aggressive a generated board is.
type Difficulty string

const (
	// Casual boards take a short direct path and drop a single trap.
	Casual Difficulty = "casual"
	// Standard boards wander a little, drop two traps, and sometimes exit.
	Standard Difficulty = "standard"
	// Cutthroat boards use the full trap budget and always exit.
	Cutthroat Difficulty = "cutthroat"
)

// Generator produces legal CPU boards from a seeded source, so the same seed
// always yields the same board. A Generator is not safe for concurrent use;
// give each goroutine its own.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded deterministically.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds one legal board of the given size and difficulty. Every
// board it returns passes rules.Validate.
func (g *Generator) Generate(size int, d Difficulty) (*board.Board, error) {
	if size < board.MinSize || size > board.MaxSize {
		return nil, fmt.Errorf("generate: board size %d out of range [%d, %d]", size, board.MinSize, board.MaxSize)
	}
	pieces, traps, exit, err := g.params(d)
	if err != nil {
		return nil, err
	}

	path, used := g.buildPath(size, pieces)

	b := board.New(fmt.Sprintf("CPU Board (%s)", d), size)
	order := 1
	for _, p := range path {
		b.Moves = append(b.Moves, board.Move{Position: p, Type: board.MovePiece, Order: order})
		order++
	}
	for _, p := range g.pickTraps(size, traps, used) {
		b.Moves = append(b.Moves, board.Move{Position: p, Type: board.MoveTrap, Order: order})
		order++
	}
	if exit {
		last := path[len(path)-1]
		b.Moves = append(b.Moves, board.Move{
			Position: board.Position{Row: board.GoalRow, Col: last.Col},
			Type:     board.MoveFinal,
			Order:    order,
		})
	}
	b.Repaint()
	return b, nil
}

// params rolls the piece, trap, and exit budget for a difficulty. Budgets
// stay inside the 8-move board limit at their maximum.
func (g *Generator) params(d Difficulty) (pieces, traps int, exit bool, err error) {
	switch d {
	case Casual:
		return 2 + g.rng.Intn(2), 1, false, nil
	case Standard:
		return 3 + g.rng.Intn(2), 2, g.rng.Intn(2) == 0, nil
	case Cutthroat:
		return 3 + g.rng.Intn(2), 3, true, nil
	default:
		return 0, 0, false, fmt.Errorf("generate: unknown difficulty %q", d)
	}
}

// buildPath walks from the back row toward the goal row, mostly stepping
// forward with an occasional sideways drift, never revisiting a cell. The
// path may come up short of the requested steps on small boards.
func (g *Generator) buildPath(size, steps int) ([]board.Position, map[board.Position]bool) {
	cur := board.Position{Row: size - 1, Col: g.rng.Intn(size)}
	path := []board.Position{cur}
	used := map[board.Position]bool{cur: true}

	for len(path) < steps && cur.Row > 0 {
		next := board.Position{Row: cur.Row - 1, Col: cur.Col}
		if g.rng.Intn(3) == 0 {
			drift := board.Position{Row: cur.Row, Col: cur.Col + 2*g.rng.Intn(2) - 1}
			if drift.InBounds(size) && !used[drift] {
				next = drift
			}
		}
		cur = next
		path = append(path, cur)
		used[cur] = true
	}
	return path, used
}

// pickTraps chooses up to want cells off the path, uniformly.
func (g *Generator) pickTraps(size, want int, used map[board.Position]bool) []board.Position {
	var free []board.Position
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			p := board.Position{Row: r, Col: c}
			if !used[p] {
				free = append(free, p)
			}
		}
	}
	g.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	if want > len(free) {
		want = len(free)
	}
	return free[:want]
}
