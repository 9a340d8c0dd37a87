package library

import (
	"context"
	"errors"
	"time"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/match"
)

// ErrNotFound is returned for lookups of records that do not exist.
var ErrNotFound = errors.New("not found")

// BoardRecord is a stored board: the codec string carries the moves and
// grid, and the record carries exactly the identity fields the codec drops.
type BoardRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Encoded   string    `json:"encoded"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OpponentRecord names a peer the player has dueled.
type OpponentRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastRound int       `json:"last_round"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultRecord is the stored summary of one simulated round against an
// opponent.
type ResultRecord struct {
	ID             string        `json:"id"`
	OpponentID     string        `json:"opponent_id"`
	Round          int           `json:"round"`
	Winner         match.Side    `json:"winner"`
	PlayerPoints   int           `json:"player_points"`
	OpponentPoints int           `json:"opponent_points"`
	Collision      bool          `json:"collision"`
	PlayerOutcome  match.Outcome `json:"player_outcome"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Store keeps the player's board library, opponent roster, and round
// history. Storage is best-effort local state: callers rely on it between
// sessions but the game itself never does. Implementations are safe for
// concurrent use.
type Store interface {
	// SaveBoard upserts a board, storing it in its codec string form.
	SaveBoard(ctx context.Context, b *board.Board) (BoardRecord, error)
	// GetBoard reassembles the full board from its record.
	GetBoard(ctx context.Context, id string) (*board.Board, error)
	// ListBoards returns all board records, newest first.
	ListBoards(ctx context.Context) ([]BoardRecord, error)
	// DeleteBoard removes a board or reports ErrNotFound.
	DeleteBoard(ctx context.Context, id string) error

	// SaveOpponent upserts an opponent, assigning an id and creation time
	// when missing, and returns the stored record.
	SaveOpponent(ctx context.Context, o OpponentRecord) (OpponentRecord, error)
	// GetOpponent looks up one opponent.
	GetOpponent(ctx context.Context, id string) (OpponentRecord, error)
	// ListOpponents returns all opponents, newest first.
	ListOpponents(ctx context.Context) ([]OpponentRecord, error)

	// SaveResult records a simulated round against a known opponent.
	SaveResult(ctx context.Context, opponentID string, r *match.RoundResult) (ResultRecord, error)
	// ListResults returns an opponent's round records, newest first.
	ListResults(ctx context.Context, opponentID string) ([]ResultRecord, error)

	Close() error
}
