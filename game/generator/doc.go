// Package generator builds legal CPU boards for solo play.
//
// Generation is heuristic, not exhaustive: a path is walked from the back
// row toward the goal with occasional sideways drift, traps land on cells
// the path avoids, and the difficulty decides the budgets and whether the
// piece exits. Every board that comes back passes the rules package.
//
// Generators are seeded, so a CPU opponent can be replayed:
//
//	b, err := generator.New(seed).Generate(8, generator.Cutthroat)
package generator
