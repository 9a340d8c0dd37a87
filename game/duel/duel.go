package duel

import (
	"errors"
	"fmt"

	"github.com/tmaxey/gridduel/game/match"
)

// Phase is where a duel stands from the player's seat.
type Phase string

const (
	// PhaseAuthoring: the player still owes a board for the next round.
	PhaseAuthoring Phase = "authoring"
	// PhaseAwaitingOpponent: the player's board is in, the opponent's is not.
	PhaseAwaitingOpponent Phase = "awaiting_opponent"
	// PhaseSimulating: both boards are in; the round can resolve.
	PhaseSimulating Phase = "simulating"
	// PhaseComplete: every round has a result.
	PhaseComplete Phase = "complete"
)

// ErrComplete is returned when a result arrives for a finished duel.
var ErrComplete = errors.New("duel is complete")

// Duel accumulates the rounds of one best-of series between two players. It
// is plain state: no storage, no clock, no goroutines.
type Duel struct {
	PlayerName   string              `json:"player_name"`
	OpponentName string              `json:"opponent_name"`
	BestOf       int                 `json:"best_of"`
	Results      []match.RoundResult `json:"results"`
}

// New starts a duel of bestOf rounds.
func New(playerName, opponentName string, bestOf int) (*Duel, error) {
	if bestOf < 1 {
		return nil, fmt.Errorf("duel: best-of %d must be at least 1", bestOf)
	}
	return &Duel{PlayerName: playerName, OpponentName: opponentName, BestOf: bestOf}, nil
}

// AddResult records a finished round. Results for an already-recorded round
// number or beyond the series length are rejected.
func (d *Duel) AddResult(r match.RoundResult) error {
	if d.Complete() {
		return fmt.Errorf("%w: %d rounds already recorded", ErrComplete, len(d.Results))
	}
	for _, have := range d.Results {
		if have.Round == r.Round {
			return fmt.Errorf("duel: round %d already recorded", r.Round)
		}
	}
	d.Results = append(d.Results, r)
	return nil
}

// Complete reports whether every round of the series has a result.
func (d *Duel) Complete() bool {
	return len(d.Results) >= d.BestOf
}

// NextRound is the number the next recorded round should carry.
func (d *Duel) NextRound() int {
	next := 1
	for _, r := range d.Results {
		if r.Round >= next {
			next = r.Round + 1
		}
	}
	return next
}

// Totals sums both sides' points across all recorded rounds.
func (d *Duel) Totals() (player, opponent int) {
	for _, r := range d.Results {
		player += r.PlayerPoints
		opponent += r.OpponentPoints
	}
	return player, opponent
}

// RoundsWon counts outright round wins per side; ties count for neither.
func (d *Duel) RoundsWon() (player, opponent int) {
	for _, r := range d.Results {
		switch r.Winner {
		case match.SidePlayer:
			player++
		case match.SideOpponent:
			opponent++
		}
	}
	return player, opponent
}

// Leader is the side ahead on rounds won, falling back to point totals when
// rounds are even.
func (d *Duel) Leader() match.Side {
	pw, ow := d.RoundsWon()
	if pw != ow {
		if pw > ow {
			return match.SidePlayer
		}
		return match.SideOpponent
	}
	pt, ot := d.Totals()
	switch {
	case pt > ot:
		return match.SidePlayer
	case ot > pt:
		return match.SideOpponent
	default:
		return match.SideTie
	}
}

// PhaseFor derives the duel's phase from whether each side's board for the
// next round is in hand. Boards live outside this package; only their
// presence matters here.
func (d *Duel) PhaseFor(haveOwnBoard, haveOpponentBoard bool) Phase {
	switch {
	case d.Complete():
		return PhaseComplete
	case !haveOwnBoard:
		return PhaseAuthoring
	case !haveOpponentBoard:
		return PhaseAwaitingOpponent
	default:
		return PhaseSimulating
	}
}
