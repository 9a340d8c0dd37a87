package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/match"
)

// fileStore keeps one JSON file per record under a directory tree, so a
// library can be inspected by hand or checked into version control.
//
//	<dir>/boards/<id>.json
//	<dir>/opponents/<id>.json
//	<dir>/results/<opponent id>/<id>.json
type fileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens a file-backed Store rooted at dir, creating the
// directory tree when missing.
func NewFileStore(dir string) (Store, error) {
	for _, sub := range []string{"boards", "opponents", "results"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create library directory: %w", err)
		}
	}
	log.Debug().Str("dir", dir).Msg("library store opened")
	return &fileStore{dir: dir}, nil
}

func (f *fileStore) SaveBoard(ctx context.Context, b *board.Board) (BoardRecord, error) {
	rec, err := boardRecord(b)
	if err != nil {
		return BoardRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := writeJSON(f.boardPath(rec.ID), rec); err != nil {
		return BoardRecord{}, fmt.Errorf("write board %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (f *fileStore) GetBoard(ctx context.Context, id string) (*board.Board, error) {
	f.mu.RLock()
	rec, err := readJSON[BoardRecord](f.boardPath(id))
	f.mu.RUnlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec.Board()
}

func (f *fileStore) ListBoards(ctx context.Context) ([]BoardRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	recs, err := loadDir[BoardRecord](filepath.Join(f.dir, "boards"))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs, func(r BoardRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return recs, nil
}

func (f *fileStore) DeleteBoard(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.boardPath(id)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("board %s: %w", id, ErrNotFound)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	return nil
}

func (f *fileStore) SaveOpponent(ctx context.Context, o OpponentRecord) (OpponentRecord, error) {
	fillOpponent(&o)
	f.mu.Lock()
	defer f.mu.Unlock()
	// Upserts keep the first creation time, as the other backends do.
	if old, err := readJSON[OpponentRecord](f.opponentPath(o.ID)); err == nil {
		o.CreatedAt = old.CreatedAt
	}
	if err := writeJSON(f.opponentPath(o.ID), o); err != nil {
		return OpponentRecord{}, fmt.Errorf("write opponent %s: %w", o.ID, err)
	}
	return o, nil
}

func (f *fileStore) GetOpponent(ctx context.Context, id string) (OpponentRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	o, err := readJSON[OpponentRecord](f.opponentPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return OpponentRecord{}, fmt.Errorf("opponent %s: %w", id, ErrNotFound)
	}
	return o, err
}

func (f *fileStore) ListOpponents(ctx context.Context) ([]OpponentRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	recs, err := loadDir[OpponentRecord](filepath.Join(f.dir, "opponents"))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs, func(r OpponentRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return recs, nil
}

func (f *fileStore) SaveResult(ctx context.Context, opponentID string, r *match.RoundResult) (ResultRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.opponentPath(opponentID)); errors.Is(err, fs.ErrNotExist) {
		return ResultRecord{}, fmt.Errorf("opponent %s: %w", opponentID, ErrNotFound)
	}
	rec := resultRecord(opponentID, r)
	dir := f.resultsDir(opponentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ResultRecord{}, fmt.Errorf("create results directory: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, rec.ID+".json"), rec); err != nil {
		return ResultRecord{}, fmt.Errorf("write result %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (f *fileStore) ListResults(ctx context.Context, opponentID string) ([]ResultRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	recs, err := loadDir[ResultRecord](f.resultsDir(opponentID))
	if err != nil {
		return nil, err
	}
	sortNewestFirst(recs, func(r ResultRecord) (time.Time, string) { return r.CreatedAt, r.ID })
	return recs, nil
}

func (f *fileStore) Close() error { return nil }

func (f *fileStore) boardPath(id string) string {
	return filepath.Join(f.dir, "boards", id+".json")
}

func (f *fileStore) opponentPath(id string) string {
	return filepath.Join(f.dir, "opponents", id+".json")
}

func (f *fileStore) resultsDir(opponentID string) string {
	return filepath.Join(f.dir, "results", opponentID)
}

func readJSON[T any](path string) (T, error) {
	var rec T
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadDir reads every .json record in dir. A missing directory is an empty
// listing, not an error.
func loadDir[T any](dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := readJSON[T](filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
