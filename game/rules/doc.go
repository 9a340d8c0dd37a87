// Package rules validates authored boards before they enter play.
//
// Validate runs every authoring rule and collects all violations into a
// single Result, so a board editor can display the complete problem list
// rather than the first failure. The rules cover:
//   - Piece discipline: one piece on the board, and nothing moves after a
//     final (exit) move
//   - Budgets: at most 3 traps, 2 to 8 moves
//   - Structure: every move paints its own distinct cell
//   - Ordering: move orders are unique and run 1..N
//   - Correspondence: each move matches its grid cell; a final sits on the
//     virtual goal row
//   - Envelope: board size in range, grid shaped size x size and consistent
//     with the move list
//
// PieceOK, TrapCountOK, MoveCountOK, and OrdersOK are allocation-light
// boolean variants of the hot checks for per-keystroke editor feedback.
//
// Validation is the trust boundary for decoded boards: the codec accepts any
// syntactically well-formed string, including positions off the grid, and
// relies on this package to reject the result.
//
// The package is pure and safe for concurrent use.
package rules
