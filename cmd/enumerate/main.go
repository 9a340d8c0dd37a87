// Command enumerate counts every legal board of one small size and reports
// the split by move count, trap count, and exit presence. Exit columns range
// over the grid; move orders are interchangeable away from the exit move, so
// the walk visits unordered move sets, validates one representative board per
// set, and multiplies by the number of orderings. Tallies are cached on disk
// as JSON because the walk is exponential in the cell count.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"time"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/rules"
)

// maxEnumerableSize caps the walk. A size 5 board already has 25 cells and
// the set walk stops being interactive.
const maxEnumerableSize = 4

var (
	size     = flag.Int("size", 3, "board size to enumerate")
	cacheDir = flag.String("cache", "enumcache", "directory holding cached tallies")
	refresh  = flag.Bool("refresh", false, "recompute even when a cached tally exists")
)

// Tally aggregates the legal boards found for one size.
type Tally struct {
	Size        int       `json:"size"`
	Sets        int64     `json:"validated_sets"`
	Total       int64     `json:"total_boards"`
	ByMoves     [9]int64  `json:"by_move_count"`
	ByTraps     [4]int64  `json:"by_trap_count"`
	WithExit    int64     `json:"with_exit"`
	WithoutExit int64     `json:"without_exit"`
	ComputedAt  time.Time `json:"computed_at"`
}

func main() {
	flag.Parse()

	if err := checkSize(*size); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	path := cachePath(*cacheDir, *size)
	if !*refresh {
		if tally, err := loadTally(path); err == nil {
			fmt.Printf("(cached %s)\n", tally.ComputedAt.Format(time.RFC3339))
			printTally(tally)
			return
		}
	}

	tally := enumerate(*size)
	if err := saveTally(path, tally); err != nil {
		fmt.Fprintf(os.Stderr, "failed to cache tally: %v\n", err)
	}
	printTally(tally)
}

// checkSize rejects sizes the walk cannot finish in reasonable time.
func checkSize(size int) error {
	if size < board.MinSize {
		return fmt.Errorf("size %d is below the minimum %d", size, board.MinSize)
	}
	if size > maxEnumerableSize {
		return fmt.Errorf("size %d is too large to enumerate (maximum %d)", size, maxEnumerableSize)
	}
	return nil
}

// enumerate walks every cell subset of up to MaxMoves cells, every trap
// assignment within the subset, and every exit column, counting each
// combination whose representative board validates.
func enumerate(size int) *Tally {
	tally := &Tally{Size: size, ComputedAt: time.Now().UTC()}
	cells := size * size

	positions := make([]board.Position, cells)
	for i := range positions {
		positions[i] = board.PositionAt(i, size)
	}

	var chosen []int
	var walk func(start int)
	walk = func(start int) {
		tallySets(tally, size, positions, chosen)
		if len(chosen) == board.MaxMoves {
			return
		}
		for i := start; i < cells; i++ {
			chosen = append(chosen, i)
			walk(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	walk(0)
	return tally
}

// tallySets counts the boards built from one cell subset: every trap mask,
// with and without a trailing exit move on each goal column.
func tallySets(tally *Tally, size int, positions []board.Position, chosen []int) {
	k := len(chosen)
	for mask := 0; mask < 1<<k; mask++ {
		traps := bits.OnesCount(uint(mask))
		if traps > board.MaxTraps {
			continue
		}

		if k >= board.MinMoves && k <= board.MaxMoves {
			b := buildBoard(size, positions, chosen, mask, -1)
			if rules.Validate(b).Valid {
				tally.record(k, traps, false, factorial(k))
			}
		}

		if n := k + 1; n >= board.MinMoves && n <= board.MaxMoves {
			for col := 0; col < size; col++ {
				b := buildBoard(size, positions, chosen, mask, col)
				if rules.Validate(b).Valid {
					tally.record(n, traps, true, factorial(k))
				}
			}
		}
	}
}

// buildBoard assembles one representative board: the chosen cells in walk
// order, trap types per the mask bits, and an exit move on exitCol when
// exitCol is non-negative.
func buildBoard(size int, positions []board.Position, chosen []int, mask, exitCol int) *board.Board {
	moves := make([]board.Move, 0, len(chosen)+1)
	for i, cell := range chosen {
		moveType := board.MovePiece
		if mask&(1<<i) != 0 {
			moveType = board.MoveTrap
		}
		moves = append(moves, board.Move{Position: positions[cell], Type: moveType, Order: i + 1})
	}
	if exitCol >= 0 {
		moves = append(moves, board.Move{
			Position: board.Position{Row: board.GoalRow, Col: exitCol},
			Type:     board.MoveFinal,
			Order:    len(chosen) + 1,
		})
	}

	b := &board.Board{Size: size, Moves: moves}
	b.Repaint()
	return b
}

func (t *Tally) record(moves, traps int, exit bool, orderings int64) {
	t.Sets++
	t.Total += orderings
	t.ByMoves[moves] += orderings
	t.ByTraps[traps] += orderings
	if exit {
		t.WithExit += orderings
	} else {
		t.WithoutExit += orderings
	}
}

var factorials = [board.MaxMoves + 1]int64{1, 1, 2, 6, 24, 120, 720, 5040, 40320}

func factorial(n int) int64 {
	return factorials[n]
}

func cachePath(dir string, size int) string {
	return filepath.Join(dir, fmt.Sprintf("size%d.json", size))
}

func loadTally(path string) (*Tally, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tally Tally
	if err := json.Unmarshal(data, &tally); err != nil {
		return nil, err
	}
	return &tally, nil
}

func saveTally(path string, tally *Tally) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tally, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printTally(t *Tally) {
	fmt.Printf("=== Legal boards for size %d ===\n", t.Size)
	fmt.Printf("Total: %d boards from %d validated move sets\n", t.Total, t.Sets)
	fmt.Printf("With exit: %d, without exit: %d\n", t.WithExit, t.WithoutExit)
	fmt.Println("By move count:")
	for n := board.MinMoves; n <= board.MaxMoves; n++ {
		fmt.Printf("  %d moves: %d\n", n, t.ByMoves[n])
	}
	fmt.Println("By trap count:")
	for n := 0; n <= board.MaxTraps; n++ {
		fmt.Printf("  %d traps: %d\n", n, t.ByTraps[n])
	}
}
