// Package match resolves two authored boards into a round outcome.
//
// Both players author toward their own goal row; Simulate replays the two
// move lists simultaneously, one move per step, after rotating the opponent's
// coordinates 180 degrees into the player's frame. Scoring per side:
//   - +1 for each piece move strictly toward the side's own goal row
//   - +1 for a final (exit) move
//   - -1 (floored at zero) for stepping on an enemy trap that was placed on
//     or before the current step
//   - -1 each (floored at zero) when both pieces land on the same cell,
//     which ends the round for both sides
//
// A side's round ends when it exits, hits a trap, or runs out of moves; a
// parked piece no longer triggers traps. The first exit ends the whole round.
// The winner is the side with more points.
//
// Simulation is deterministic, pure, and never fails; it tolerates short or
// empty move lists and leaves legality checking to the rules package.
//
// Usage:
//
//	result := match.Simulate(1, myBoard, theirBoard)
//	fmt.Println(result.Winner, result.PlayerPoints, result.OpponentPoints)
//
// The opposing peer obtains its own view by calling Simulate with the boards
// swapped; RoundResult's player-relative fields make the two views agree on
// winner and points.
package match
