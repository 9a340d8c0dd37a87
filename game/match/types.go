package match

import "github.com/tmaxey/gridduel/game/board"

// Side identifies a seat in a round.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
	SideTie      Side = "tie"
)

// Outcome represents the player's visual fate for a round. The opposing peer
// runs the same simulation with the boards swapped to get its own.
type Outcome string

const (
	OutcomeGoal    Outcome = "goal"
	OutcomeTrapped Outcome = "trapped"
	OutcomeForward Outcome = "forward"
	OutcomeStuck   Outcome = "stuck"
)

// Details carries the per-side execution counters a result viewer renders.
type Details struct {
	PlayerMoves     int  `json:"player_moves"`
	OpponentMoves   int  `json:"opponent_moves"`
	PlayerHitTrap   bool `json:"player_hit_trap"`
	OpponentHitTrap bool `json:"opponent_hit_trap"`
}

// RoundResult is the complete outcome of simulating one round. It is plain
// data, immutable once returned.
type RoundResult struct {
	Round                 int            `json:"round"`
	Winner                Side           `json:"winner"`
	PlayerBoard           *board.Board   `json:"player_board"`
	OpponentBoard         *board.Board   `json:"opponent_board"`
	PlayerFinalPosition   board.Position `json:"player_final_position"`
	OpponentFinalPosition board.Position `json:"opponent_final_position"`
	PlayerPoints          int            `json:"player_points"`
	OpponentPoints        int            `json:"opponent_points"`
	PlayerOutcome         Outcome        `json:"player_outcome"`
	Collision             bool           `json:"collision"`
	Details               Details        `json:"simulation_details"`
}
