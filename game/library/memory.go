package library

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/codec"
	"github.com/tmaxey/gridduel/game/match"
)

// memoryStore is the map-backed Store. State is gone when the process exits;
// it serves tests and throwaway play.
type memoryStore struct {
	mu        sync.RWMutex
	boards    map[string]BoardRecord
	opponents map[string]OpponentRecord
	results   map[string][]ResultRecord // keyed by opponent id
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		boards:    make(map[string]BoardRecord),
		opponents: make(map[string]OpponentRecord),
		results:   make(map[string][]ResultRecord),
	}
}

func (m *memoryStore) SaveBoard(ctx context.Context, b *board.Board) (BoardRecord, error) {
	rec, err := boardRecord(b)
	if err != nil {
		return BoardRecord{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) GetBoard(ctx context.Context, id string) (*board.Board, error) {
	m.mu.RLock()
	rec, ok := m.boards[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	return rec.Board()
}

func (m *memoryStore) ListBoards(ctx context.Context) ([]BoardRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BoardRecord, 0, len(m.boards))
	for _, rec := range m.boards {
		out = append(out, rec)
	}
	sortNewestFirst(out, func(r BoardRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return out, nil
}

func (m *memoryStore) DeleteBoard(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[id]; !ok {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	delete(m.boards, id)
	return nil
}

func (m *memoryStore) SaveOpponent(ctx context.Context, o OpponentRecord) (OpponentRecord, error) {
	fillOpponent(&o)
	m.mu.Lock()
	defer m.mu.Unlock()
	// Upserts keep the first creation time, as the SQLite backend does.
	if old, ok := m.opponents[o.ID]; ok {
		o.CreatedAt = old.CreatedAt
	}
	m.opponents[o.ID] = o
	return o, nil
}

func (m *memoryStore) GetOpponent(ctx context.Context, id string) (OpponentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.opponents[id]
	if !ok {
		return OpponentRecord{}, fmt.Errorf("opponent %s: %w", id, ErrNotFound)
	}
	return o, nil
}

func (m *memoryStore) ListOpponents(ctx context.Context) ([]OpponentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]OpponentRecord, 0, len(m.opponents))
	for _, o := range m.opponents {
		out = append(out, o)
	}
	sortNewestFirst(out, func(r OpponentRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return out, nil
}

func (m *memoryStore) SaveResult(ctx context.Context, opponentID string, r *match.RoundResult) (ResultRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.opponents[opponentID]; !ok {
		return ResultRecord{}, fmt.Errorf("opponent %s: %w", opponentID, ErrNotFound)
	}
	rec := resultRecord(opponentID, r)
	m.results[opponentID] = append(m.results[opponentID], rec)
	return rec, nil
}

func (m *memoryStore) ListResults(ctx context.Context, opponentID string) ([]ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ResultRecord, len(m.results[opponentID]))
	copy(out, m.results[opponentID])
	sortNewestFirst(out, func(r ResultRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

// boardRecord derives the stored form of a board.
func boardRecord(b *board.Board) (BoardRecord, error) {
	encoded, err := codec.Encode(b)
	if err != nil {
		return BoardRecord{}, fmt.Errorf("save board: %w", err)
	}
	rec := BoardRecord{
		ID:        b.ID,
		Name:      b.Name,
		Size:      b.Size,
		Encoded:   encoded,
		Thumbnail: b.Thumbnail,
		CreatedAt: b.CreatedAt,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec, nil
}

// Board reassembles the stored board: moves and grid from the codec string,
// identity from the record.
func (r BoardRecord) Board() (*board.Board, error) {
	b, err := codec.Decode(r.Encoded)
	if err != nil {
		return nil, fmt.Errorf("stored board %s: %w", r.ID, err)
	}
	b.ID = r.ID
	b.Name = r.Name
	b.Thumbnail = r.Thumbnail
	b.CreatedAt = r.CreatedAt
	return b, nil
}

func fillOpponent(o *OpponentRecord) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
}

func resultRecord(opponentID string, r *match.RoundResult) ResultRecord {
	return ResultRecord{
		ID:             uuid.NewString(),
		OpponentID:     opponentID,
		Round:          r.Round,
		Winner:         r.Winner,
		PlayerPoints:   r.PlayerPoints,
		OpponentPoints: r.OpponentPoints,
		Collision:      r.Collision,
		PlayerOutcome:  r.PlayerOutcome,
		CreatedAt:      time.Now().UTC(),
	}
}

// sortNewestFirst orders records by creation time descending, then id, so
// every backend lists identically.
func sortNewestFirst[T any](recs []T, key func(T) (time.Time, string)) {
	sort.Slice(recs, func(i, j int) bool {
		ti, idi := key(recs[i])
		tj, idj := key(recs[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi < idj
	})
}
