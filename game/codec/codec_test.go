package codec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tmaxey/gridduel/game/board"
)

func createSmallBoard() *board.Board {
	b := board.New("Codec Test", 2)
	b.Moves = []board.Move{
		{Position: board.Position{Row: 0, Col: 0}, Type: board.MovePiece, Order: 1},
		{Position: board.Position{Row: 1, Col: 1}, Type: board.MoveTrap, Order: 2},
		{Position: board.Position{Row: board.GoalRow, Col: 0}, Type: board.MoveFinal, Order: 3},
	}
	b.Repaint()
	return b
}

func TestEncode_SmallBoard(t *testing.T) {
	got, err := Encode(createSmallBoard())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if want := "2|0p3tG0f"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncode_TwoDigitPadding(t *testing.T) {
	b := board.New("Codec Test", 10)
	b.Moves = []board.Move{
		{Position: board.Position{Row: 0, Col: 0}, Type: board.MovePiece, Order: 1},
		{Position: board.Position{Row: 5, Col: 5}, Type: board.MoveTrap, Order: 2},
		{Position: board.Position{Row: 9, Col: 9}, Type: board.MovePiece, Order: 3},
		{Position: board.Position{Row: board.GoalRow, Col: 0}, Type: board.MoveFinal, Order: 4},
	}
	b.Repaint()

	got, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if want := "10|00p55t99pG0f"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncode_TokensFollowMoveOrder(t *testing.T) {
	b := createSmallBoard()
	// Author the same moves out of slice order; encoding sorts by Order.
	b.Moves = []board.Move{b.Moves[2], b.Moves[0], b.Moves[1]}

	got, err := Encode(b)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if want := "2|0p3tG0f"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncode_Errors(t *testing.T) {
	undersized := board.New("Too Small", 1)
	if _, err := Encode(undersized); err == nil {
		t.Error("Expected an error for size 1")
	}

	offGrid := board.New("Off Grid", 2)
	offGrid.Moves = []board.Move{
		{Position: board.Position{Row: 5, Col: 0}, Type: board.MovePiece, Order: 1},
	}
	if _, err := Encode(offGrid); err == nil {
		t.Error("Expected an error for an off-grid move")
	}

	unknown := board.New("Unknown", 2)
	unknown.Moves = []board.Move{
		{Position: board.Position{Row: 0, Col: 0}, Type: board.MoveType("warp"), Order: 1},
	}
	if _, err := Encode(unknown); err == nil {
		t.Error("Expected an error for an unknown move type")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	original := createSmallBoard()
	s, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(s)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !reflect.DeepEqual(decoded.Moves, original.Moves) {
		t.Errorf("Moves did not survive the round trip:\n got %+v\nwant %+v", decoded.Moves, original.Moves)
	}
	if !reflect.DeepEqual(decoded.Grid, original.Grid) {
		t.Errorf("Grid did not survive the round trip")
	}
	if decoded.Size != original.Size {
		t.Errorf("Expected size %d, got %d", original.Size, decoded.Size)
	}

	// Identity is intentionally dropped.
	if decoded.ID == original.ID {
		t.Error("Expected a fresh id on decode")
	}
	if decoded.Name != SharedBoardName {
		t.Errorf("Expected name %q, got %q", SharedBoardName, decoded.Name)
	}
}

func TestDecode_AssignsOrders(t *testing.T) {
	b, err := Decode("3|8p5p2pG2f")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(b.Moves) != 4 {
		t.Fatalf("Expected 4 moves, got %d", len(b.Moves))
	}
	for i, m := range b.Moves {
		if m.Order != i+1 {
			t.Errorf("Expected order %d at token %d, got %d", i+1, i, m.Order)
		}
	}
	if want := (board.Position{Row: 2, Col: 2}); b.Moves[0].Position != want {
		t.Errorf("Expected first move at %v, got %v", want, b.Moves[0].Position)
	}
	final := b.Moves[3]
	if final.Type != board.MoveFinal || !final.Position.AtGoal() || final.Position.Col != 2 {
		t.Errorf("Expected final at goal column 2, got %+v", final)
	}
}

func TestDecode_EmptyMoveList(t *testing.T) {
	b, err := Decode("2|")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(b.Moves) != 0 {
		t.Errorf("Expected no moves, got %d", len(b.Moves))
	}
	if b.Size != 2 {
		t.Errorf("Expected size 2, got %d", b.Size)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"no separator", "2p0", ErrBadFormat},
		{"empty string", "", ErrBadFormat},
		{"size not a number", "ab|0p", ErrBadSize},
		{"size too small", "1|0p", ErrBadSize},
		{"size too large", "100|0p", ErrBadSize},
		{"bad move type", "2|0x", ErrBadMoveType},
		{"missing move type", "2|0", ErrTruncatedPosition},
		{"short position", "10|5", ErrTruncatedPosition},
		{"position not digits", "2|ap", ErrBadPosition},
		{"padded position cut into type", "10|0p", ErrBadPosition},
		{"goal without column", "2|Gf", ErrBadGoalToken},
		{"goal at end of input", "2|G", ErrBadGoalToken},
		{"goal missing f", "2|G5", ErrBadGoalToken},
		{"goal column not a digit", "2|Gxf", ErrBadGoalColumn},
		{"second token malformed", "2|0pGf", ErrBadGoalToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			if err == nil {
				t.Fatalf("Decode(%q) succeeded, expected %v", tt.in, tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(%q) = %v, expected %v", tt.in, err, tt.want)
			}
		})
	}
}

// Decode checks syntax only: positions past the grid edge and out-of-range
// goal columns come back for the validator to reject.
func TestDecode_SyntaxOnly(t *testing.T) {
	b, err := Decode("2|9p")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if want := (board.Position{Row: 4, Col: 1}); b.Moves[0].Position != want {
		t.Errorf("Expected off-grid position %v preserved, got %v", want, b.Moves[0].Position)
	}

	b, err = Decode("2|G7f")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b.Moves[0].Position.Col != 7 {
		t.Errorf("Expected goal column 7 preserved, got %d", b.Moves[0].Position.Col)
	}
}
