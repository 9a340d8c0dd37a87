package library

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tmaxey/gridduel/game/board"
	"github.com/tmaxey/gridduel/game/match"
)

// testStores runs one scenario against every backend; all must agree on
// Store semantics.
func testStores(t *testing.T, run func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		s := NewMemoryStore()
		defer s.Close()
		run(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "library.db"))
		if err != nil {
			t.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer s.Close()
		run(t, s)
	})
	t.Run("file", func(t *testing.T) {
		s, err := NewFileStore(filepath.Join(t.TempDir(), "library"))
		if err != nil {
			t.Fatalf("Failed to open file store: %v", err)
		}
		defer s.Close()
		run(t, s)
	})
}

func createLibraryBoard(name string, createdAt time.Time) *board.Board {
	b := board.New(name, 4)
	b.Moves = []board.Move{
		{Position: board.Position{Row: 3, Col: 1}, Type: board.MovePiece, Order: 1},
		{Position: board.Position{Row: 2, Col: 1}, Type: board.MovePiece, Order: 2},
		{Position: board.Position{Row: 0, Col: 3}, Type: board.MoveTrap, Order: 3},
		{Position: board.Position{Row: board.GoalRow, Col: 1}, Type: board.MoveFinal, Order: 4},
	}
	b.Repaint()
	b.Thumbnail = "thumb:" + name
	b.CreatedAt = createdAt
	return b
}

func TestStore_BoardRoundTrip(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		original := createLibraryBoard("Keeper", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))

		rec, err := s.SaveBoard(ctx, original)
		if err != nil {
			t.Fatalf("SaveBoard failed: %v", err)
		}
		if rec.ID != original.ID {
			t.Errorf("Expected record id %s, got %s", original.ID, rec.ID)
		}
		if rec.Encoded == "" {
			t.Error("Expected an encoded board string")
		}

		got, err := s.GetBoard(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetBoard failed: %v", err)
		}
		if !reflect.DeepEqual(got.Moves, original.Moves) {
			t.Errorf("Moves did not survive storage:\n got %+v\nwant %+v", got.Moves, original.Moves)
		}
		if !reflect.DeepEqual(got.Grid, original.Grid) {
			t.Error("Grid did not survive storage")
		}
		if got.Name != original.Name || got.Thumbnail != original.Thumbnail {
			t.Errorf("Identity fields lost: name %q thumbnail %q", got.Name, got.Thumbnail)
		}
		if !got.CreatedAt.Equal(original.CreatedAt) {
			t.Errorf("Expected creation time %v, got %v", original.CreatedAt, got.CreatedAt)
		}
	})
}

func TestStore_GetBoardMissing(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		_, err := s.GetBoard(context.Background(), "no-such-board")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_ListBoardsNewestFirst(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

		oldest := createLibraryBoard("Oldest", base)
		middle := createLibraryBoard("Middle", base.Add(time.Hour))
		newest := createLibraryBoard("Newest", base.Add(2*time.Hour))
		for _, b := range []*board.Board{middle, newest, oldest} {
			if _, err := s.SaveBoard(ctx, b); err != nil {
				t.Fatalf("SaveBoard failed: %v", err)
			}
		}

		recs, err := s.ListBoards(ctx)
		if err != nil {
			t.Fatalf("ListBoards failed: %v", err)
		}
		if len(recs) != 3 {
			t.Fatalf("Expected 3 boards, got %d", len(recs))
		}
		for i, want := range []string{"Newest", "Middle", "Oldest"} {
			if recs[i].Name != want {
				t.Errorf("Expected %q at position %d, got %q", want, i, recs[i].Name)
			}
		}
	})
}

func TestStore_SaveBoardUpserts(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		b := createLibraryBoard("First Draft", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
		if _, err := s.SaveBoard(ctx, b); err != nil {
			t.Fatalf("SaveBoard failed: %v", err)
		}

		b.Name = "Second Draft"
		if _, err := s.SaveBoard(ctx, b); err != nil {
			t.Fatalf("SaveBoard (update) failed: %v", err)
		}

		recs, err := s.ListBoards(ctx)
		if err != nil {
			t.Fatalf("ListBoards failed: %v", err)
		}
		if len(recs) != 1 {
			t.Fatalf("Expected 1 board after upsert, got %d", len(recs))
		}
		if recs[0].Name != "Second Draft" {
			t.Errorf("Expected updated name, got %q", recs[0].Name)
		}
	})
}

func TestStore_DeleteBoard(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		b := createLibraryBoard("Doomed", time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC))
		if _, err := s.SaveBoard(ctx, b); err != nil {
			t.Fatalf("SaveBoard failed: %v", err)
		}

		if err := s.DeleteBoard(ctx, b.ID); err != nil {
			t.Fatalf("DeleteBoard failed: %v", err)
		}
		if _, err := s.GetBoard(ctx, b.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected the board gone, got %v", err)
		}
		if err := s.DeleteBoard(ctx, b.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound on double delete, got %v", err)
		}
	})
}

func TestStore_Opponents(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		saved, err := s.SaveOpponent(ctx, OpponentRecord{Name: "sam"})
		if err != nil {
			t.Fatalf("SaveOpponent failed: %v", err)
		}
		if saved.ID == "" {
			t.Error("Expected an assigned opponent id")
		}
		if saved.CreatedAt.IsZero() {
			t.Error("Expected an assigned creation time")
		}

		got, err := s.GetOpponent(ctx, saved.ID)
		if err != nil {
			t.Fatalf("GetOpponent failed: %v", err)
		}
		if got.Name != "sam" {
			t.Errorf("Expected name %q, got %q", "sam", got.Name)
		}

		saved.LastRound = 4
		if _, err := s.SaveOpponent(ctx, saved); err != nil {
			t.Fatalf("SaveOpponent (update) failed: %v", err)
		}
		got, err = s.GetOpponent(ctx, saved.ID)
		if err != nil {
			t.Fatalf("GetOpponent failed: %v", err)
		}
		if got.LastRound != 4 {
			t.Errorf("Expected last round 4, got %d", got.LastRound)
		}

		all, err := s.ListOpponents(ctx)
		if err != nil {
			t.Fatalf("ListOpponents failed: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("Expected 1 opponent after upsert, got %d", len(all))
		}

		if _, err := s.GetOpponent(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_Results(t *testing.T) {
	testStores(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		result := &match.RoundResult{
			Round:          1,
			Winner:         match.SidePlayer,
			PlayerPoints:   2,
			OpponentPoints: 1,
			PlayerOutcome:  match.OutcomeGoal,
			Collision:      false,
		}

		if _, err := s.SaveResult(ctx, "nobody", result); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for an unknown opponent, got %v", err)
		}

		opp, err := s.SaveOpponent(ctx, OpponentRecord{Name: "sam"})
		if err != nil {
			t.Fatalf("SaveOpponent failed: %v", err)
		}

		rec, err := s.SaveResult(ctx, opp.ID, result)
		if err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
		if rec.ID == "" || rec.OpponentID != opp.ID {
			t.Errorf("Expected a keyed record, got %+v", rec)
		}

		second := &match.RoundResult{
			Round: 2, Winner: match.SideTie, PlayerOutcome: match.OutcomeForward, Collision: true,
		}
		if _, err := s.SaveResult(ctx, opp.ID, second); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}

		recs, err := s.ListResults(ctx, opp.ID)
		if err != nil {
			t.Fatalf("ListResults failed: %v", err)
		}
		if len(recs) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(recs))
		}
		rounds := map[int]ResultRecord{}
		for _, r := range recs {
			rounds[r.Round] = r
		}
		first, ok := rounds[1]
		if !ok {
			t.Fatal("Expected round 1 in the list")
		}
		if first.Winner != match.SidePlayer || first.PlayerPoints != 2 ||
			first.OpponentPoints != 1 || first.PlayerOutcome != match.OutcomeGoal {
			t.Errorf("Round 1 fields lost: %+v", first)
		}
		if got := rounds[2]; !got.Collision {
			t.Errorf("Expected the collision flag carried, got %+v", got)
		}

		other, err := s.ListResults(ctx, "nobody")
		if err != nil {
			t.Fatalf("ListResults failed: %v", err)
		}
		if len(other) != 0 {
			t.Errorf("Expected no results for an unknown opponent, got %d", len(other))
		}
	})
}

func TestStore_DiskBackendsSurviveReopen(t *testing.T) {
	backends := map[string]func(dir string) (Store, error){
		"sqlite": func(dir string) (Store, error) { return NewSQLiteStore(filepath.Join(dir, "library.db")) },
		"file":   func(dir string) (Store, error) { return NewFileStore(filepath.Join(dir, "library")) },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			ctx := context.Background()
			b := createLibraryBoard("Keeper", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))

			s, err := open(dir)
			if err != nil {
				t.Fatalf("Failed to open store: %v", err)
			}
			if _, err := s.SaveBoard(ctx, b); err != nil {
				t.Fatalf("SaveBoard failed: %v", err)
			}
			opp, err := s.SaveOpponent(ctx, OpponentRecord{Name: "sam"})
			if err != nil {
				t.Fatalf("SaveOpponent failed: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			s, err = open(dir)
			if err != nil {
				t.Fatalf("Failed to reopen store: %v", err)
			}
			defer s.Close()

			got, err := s.GetBoard(ctx, b.ID)
			if err != nil {
				t.Fatalf("GetBoard after reopen failed: %v", err)
			}
			if got.Name != "Keeper" || len(got.Moves) != len(b.Moves) {
				t.Errorf("Board lost across reopen: %+v", got)
			}
			if _, err := s.GetOpponent(ctx, opp.ID); err != nil {
				t.Errorf("Expected opponent to survive reopen, got %v", err)
			}
		})
	}
}
