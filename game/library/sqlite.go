package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/match"
)

// Creation times are stored as unix nanoseconds so ordering stays numeric.
const schema = `
CREATE TABLE IF NOT EXISTS boards (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	encoded    TEXT NOT NULL,
	thumbnail  TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS opponents (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	last_round INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	id              TEXT PRIMARY KEY,
	opponent_id     TEXT NOT NULL REFERENCES opponents(id) ON DELETE CASCADE,
	round           INTEGER NOT NULL,
	winner          TEXT NOT NULL,
	player_points   INTEGER NOT NULL,
	opponent_points INTEGER NOT NULL,
	collision       INTEGER NOT NULL DEFAULT 0,
	player_outcome  TEXT NOT NULL,
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_opponent ON results(opponent_id, created_at);
`

// sqliteStore is the durable Store, one SQLite file per player.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if missing) the library database at path,
// with WAL journaling, a busy timeout, foreign keys on, and the schema
// ensured.
func NewSQLiteStore(path string) (Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("library store opened")
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveBoard(ctx context.Context, b *board.Board) (BoardRecord, error) {
	rec, err := boardRecord(b)
	if err != nil {
		return BoardRecord{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boards (id, name, size, encoded, thumbnail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			size = excluded.size,
			encoded = excluded.encoded,
			thumbnail = excluded.thumbnail,
			created_at = excluded.created_at`,
		rec.ID, rec.Name, rec.Size, rec.Encoded, rec.Thumbnail, rec.CreatedAt.UnixNano())
	if err != nil {
		return BoardRecord{}, fmt.Errorf("save board: %w", err)
	}
	return rec, nil
}

func (s *sqliteStore) GetBoard(ctx context.Context, id string) (*board.Board, error) {
	var (
		rec   = BoardRecord{ID: id}
		nanos int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, size, encoded, thumbnail, created_at FROM boards WHERE id = ?`, id).
		Scan(&rec.Name, &rec.Size, &rec.Encoded, &rec.Thumbnail, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	rec.CreatedAt = time.Unix(0, nanos).UTC()
	return rec.Board()
}

func (s *sqliteStore) ListBoards(ctx context.Context) ([]BoardRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, size, encoded, thumbnail, created_at
		FROM boards ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var out []BoardRecord
	for rows.Next() {
		var (
			rec   BoardRecord
			nanos int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Size, &rec.Encoded, &rec.Thumbnail, &nanos); err != nil {
			return nil, fmt.Errorf("list boards: %w", err)
		}
		rec.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) DeleteBoard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *sqliteStore) SaveOpponent(ctx context.Context, o OpponentRecord) (OpponentRecord, error) {
	fillOpponent(&o)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO opponents (id, name, last_round, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			last_round = excluded.last_round`,
		o.ID, o.Name, o.LastRound, o.CreatedAt.UnixNano())
	if err != nil {
		return OpponentRecord{}, fmt.Errorf("save opponent: %w", err)
	}
	return o, nil
}

func (s *sqliteStore) GetOpponent(ctx context.Context, id string) (OpponentRecord, error) {
	var (
		o     = OpponentRecord{ID: id}
		nanos int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT name, last_round, created_at FROM opponents WHERE id = ?`, id).
		Scan(&o.Name, &o.LastRound, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return OpponentRecord{}, fmt.Errorf("opponent %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return OpponentRecord{}, fmt.Errorf("get opponent: %w", err)
	}
	o.CreatedAt = time.Unix(0, nanos).UTC()
	return o, nil
}

func (s *sqliteStore) ListOpponents(ctx context.Context) ([]OpponentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, last_round, created_at
		FROM opponents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list opponents: %w", err)
	}
	defer rows.Close()

	var out []OpponentRecord
	for rows.Next() {
		var (
			o     OpponentRecord
			nanos int64
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.LastRound, &nanos); err != nil {
			return nil, fmt.Errorf("list opponents: %w", err)
		}
		o.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *sqliteStore) SaveResult(ctx context.Context, opponentID string, r *match.RoundResult) (ResultRecord, error) {
	if _, err := s.GetOpponent(ctx, opponentID); err != nil {
		return ResultRecord{}, err
	}
	rec := resultRecord(opponentID, r)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (id, opponent_id, round, winner, player_points,
			opponent_points, collision, player_outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OpponentID, rec.Round, string(rec.Winner), rec.PlayerPoints,
		rec.OpponentPoints, rec.Collision, string(rec.PlayerOutcome), rec.CreatedAt.UnixNano())
	if err != nil {
		return ResultRecord{}, fmt.Errorf("save result: %w", err)
	}
	return rec, nil
}

func (s *sqliteStore) ListResults(ctx context.Context, opponentID string) ([]ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, round, winner, player_points, opponent_points, collision,
			player_outcome, created_at
		FROM results WHERE opponent_id = ? ORDER BY created_at DESC, id`, opponentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var (
			rec     = ResultRecord{OpponentID: opponentID}
			winner  string
			outcome string
			nanos   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Round, &winner, &rec.PlayerPoints,
			&rec.OpponentPoints, &rec.Collision, &outcome, &nanos); err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		rec.Winner = match.Side(winner)
		rec.PlayerOutcome = match.Outcome(outcome)
		rec.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	if err := s.db.Close(); err != nil {
		log.Warn().Err(err).Msg("close library store")
		return err
	}
	return nil
}
