// Package duel tracks a best-of series between two players.
//
// A Duel is the running tally a client keeps while boards travel back and
// forth: recorded round results, point totals, rounds won, and the derived
// phase (authoring, awaiting the opponent, ready to simulate, complete).
// It holds no boards and does no I/O; the surrounding application passes
// board presence in and stores the duel wherever it likes.
package duel
