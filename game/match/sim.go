package match

import "github.com/tmaxey/gridduel/game/board"

// Simulate resolves one round between two boards and returns its result. Both
// sides replay their move lists simultaneously, one move per step, in the
// player's frame; every opponent coordinate is mapped through board.Rotate
// before any comparison.
//
// Simulate is deterministic and never fails. It tolerates empty and short
// move lists and does not check legality; callers validate boards with the
// rules package first, and feeding it an illegal board yields an unspecified
// but non-crashing result.
func Simulate(round int, playerBoard, opponentBoard *board.Board) *RoundResult {
	player := newSideState(playerBoard, false, -1)
	opponent := newSideState(opponentBoard, true, 1)

	maxSteps := len(player.moves)
	if len(opponent.moves) > maxSteps {
		maxSteps = len(opponent.moves)
	}

	for step := 0; step < maxSteps; step++ {
		player.act(step)
		opponent.act(step)

		// Collision resolves before traps: two pieces on one cell end the
		// whole round, even when a side has already parked.
		if !player.atGoal && !opponent.atGoal &&
			player.positioned && opponent.positioned && player.pos == opponent.pos {
			player.score = floorDec(player.score)
			opponent.score = floorDec(opponent.score)
			break
		}

		player.checkTrap(step, opponent.traps)
		opponent.checkTrap(step, player.traps)

		// The first goal ends the round outright; later-scheduled events are
		// never evaluated.
		if (!player.running && !opponent.running) || player.atGoal || opponent.atGoal {
			break
		}
	}

	playerFinal := player.finalPosition()
	opponentFinal := opponent.finalPosition()

	winner := SideTie
	switch {
	case player.score > opponent.score:
		winner = SidePlayer
	case opponent.score > player.score:
		winner = SideOpponent
	}

	return &RoundResult{
		Round:                 round,
		Winner:                winner,
		PlayerBoard:           playerBoard,
		OpponentBoard:         opponentBoard,
		PlayerFinalPosition:   playerFinal,
		OpponentFinalPosition: opponentFinal,
		PlayerPoints:          player.score,
		OpponentPoints:        opponent.score,
		PlayerOutcome:         playerOutcome(player, opponent),
		// Recomputed from final positions, not carried from the mid-round
		// branch; the two can disagree and the result keeps this one.
		Collision: playerFinal == opponentFinal,
		Details: Details{
			PlayerMoves:     player.executed,
			OpponentMoves:   opponent.executed,
			PlayerHitTrap:   player.hitTrap,
			OpponentHitTrap: opponent.hitTrap,
		},
	}
}

// sideState tracks one seat through a round, already mapped into the shared
// frame.
type sideState struct {
	moves      []board.Move
	size       int
	rotated    bool
	forward    int // shared-frame row delta that counts as progress
	pos        board.Position
	positioned bool
	score      int
	atGoal     bool
	running    bool
	hitTrap    bool
	executed   int
	traps      map[board.Position]int // shared-frame cell -> placement step
}

func newSideState(b *board.Board, rotated bool, forward int) *sideState {
	return &sideState{
		moves:   b.SortedMoves(),
		size:    b.Size,
		rotated: rotated,
		forward: forward,
		running: true,
		traps:   make(map[board.Position]int),
	}
}

// framePos maps an authored position into the shared frame.
func (s *sideState) framePos(p board.Position) board.Position {
	if s.rotated {
		return board.Rotate(p, s.size)
	}
	return p
}

// act executes the side's move for this step, if its round is still running
// and it has one. Executing the last move parks the piece: the side's round
// ends on the same step.
func (s *sideState) act(step int) {
	if !s.running || step >= len(s.moves) {
		return
	}
	m := s.moves[step]
	pos := s.framePos(m.Position)

	switch m.Type {
	case board.MovePiece:
		if s.positioned && (pos.Row-s.pos.Row)*s.forward > 0 {
			s.score++
		}
		s.pos = pos
		s.positioned = true
	case board.MoveTrap:
		s.traps[pos] = step
	case board.MoveFinal:
		s.atGoal = true
		s.score++
		s.pos = pos
		s.positioned = true
	}

	s.executed++
	if s.atGoal || step == len(s.moves)-1 {
		s.running = false
	}
}

// checkTrap fires an enemy trap under the side's current cell if the trap was
// placed on or before this step. Parked and finished sides are out of reach.
func (s *sideState) checkTrap(step int, enemyTraps map[board.Position]int) {
	if !s.running || !s.positioned {
		return
	}
	if placed, ok := enemyTraps[s.pos]; ok && placed <= step {
		s.score = floorDec(s.score)
		s.hitTrap = true
		s.running = false
	}
}

// finalPosition is the side's resting position, falling back to its
// conventional start corner when it never moved.
func (s *sideState) finalPosition() board.Position {
	if s.positioned {
		return s.pos
	}
	return s.framePos(board.Position{Row: s.size - 1, Col: 0})
}

func playerOutcome(p, o *sideState) Outcome {
	switch {
	case p.atGoal:
		return OutcomeGoal
	case p.hitTrap:
		return OutcomeTrapped
	case o.atGoal:
		return OutcomeStuck
	case p.positioned:
		return OutcomeForward
	default:
		return OutcomeStuck
	}
}

// floorDec decrements without going negative; no scoring path may take a
// side below zero.
func floorDec(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
