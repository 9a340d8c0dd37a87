package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmaxey/gridduel/game/board"
)

// SharedBoardName is the placeholder name decode gives a board, since the
// wire format does not carry one.
const SharedBoardName = "Shared Board"

// Decode failure classes. Any of them means "reject untrusted input"; there
// is no partial recovery. Match with errors.Is.
var (
	ErrBadFormat         = errors.New("malformed board string")
	ErrBadSize           = errors.New("invalid board size")
	ErrBadMoveType       = errors.New("unknown move type")
	ErrBadGoalToken      = errors.New("malformed goal token")
	ErrBadGoalColumn     = errors.New("invalid goal column")
	ErrBadPosition       = errors.New("invalid position token")
	ErrTruncatedPosition = errors.New("truncated position token")
)

// Encode renders a board as its compact string form:
// "<size>|<token><token>...". Regular tokens are the zero-padded flattened
// index (row*size+col, padded to the width of size*size-1) followed by 'p' or
// 't'; a final move becomes 'G', the unpadded goal column, and 'f'. Tokens
// appear in move order.
//
// Only the size, moves, and grid survive the trip; id, name, thumbnail, and
// creation time are intentionally dropped.
func Encode(b *board.Board) (string, error) {
	if b.Size < board.MinSize || b.Size > board.MaxSize {
		return "", fmt.Errorf("encode: board size %d out of range [%d, %d]", b.Size, board.MinSize, board.MaxSize)
	}
	width := indexWidth(b.Size)

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(b.Size))
	sb.WriteByte('|')

	for _, m := range b.SortedMoves() {
		switch m.Type {
		case board.MoveFinal:
			sb.WriteByte('G')
			sb.WriteString(strconv.Itoa(m.Position.Col))
			sb.WriteByte('f')
		case board.MovePiece, board.MoveTrap:
			if !m.Position.InBounds(b.Size) {
				return "", fmt.Errorf("encode: move %d off the grid at (%d,%d)", m.Order, m.Position.Row, m.Position.Col)
			}
			fmt.Fprintf(&sb, "%0*d", width, board.FlatIndex(m.Position, b.Size))
			if m.Type == board.MovePiece {
				sb.WriteByte('p')
			} else {
				sb.WriteByte('t')
			}
		default:
			return "", fmt.Errorf("encode: move %d has unknown type %q", m.Order, m.Type)
		}
	}
	return sb.String(), nil
}

// Decode parses a board string back into a full board. This is the trust
// boundary for text from a peer: any malformed input fails with one of the
// exported error classes.
//
// Decode checks syntax only. Positions are not range-checked against the
// grid and the goal column is not bounded; run the rules package on the
// result before treating it as legal. Move orders are assigned 1..N from
// token position. The board gets a fresh id, the SharedBoardName
// placeholder, and a repainted grid.
func Decode(s string) (*board.Board, error) {
	head, body, ok := strings.Cut(s, "|")
	if !ok {
		return nil, fmt.Errorf("%w: missing '|' separator", ErrBadFormat)
	}
	size, err := strconv.Atoi(head)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrBadSize, head)
	}
	if size < board.MinSize || size > board.MaxSize {
		return nil, fmt.Errorf("%w: %d out of range [%d, %d]", ErrBadSize, size, board.MinSize, board.MaxSize)
	}
	width := indexWidth(size)

	var moves []board.Move
	order := 1
	for i := 0; i < len(body); {
		if body[i] == 'G' {
			col, rest, err := scanGoal(body, i+1)
			if err != nil {
				return nil, err
			}
			moves = append(moves, board.Move{
				Position: board.Position{Row: board.GoalRow, Col: col},
				Type:     board.MoveFinal,
				Order:    order,
			})
			order++
			i = rest
			continue
		}

		if len(body)-i < width {
			return nil, fmt.Errorf("%w: %q", ErrTruncatedPosition, body[i:])
		}
		raw := body[i : i+width]
		for j := 0; j < len(raw); j++ {
			if !isDigit(raw[j]) {
				return nil, fmt.Errorf("%w: %q", ErrBadPosition, raw)
			}
		}
		idx, _ := strconv.Atoi(raw)
		i += width

		if i >= len(body) {
			return nil, fmt.Errorf("%w: position %q has no move type", ErrTruncatedPosition, raw)
		}
		var mt board.MoveType
		switch body[i] {
		case 'p':
			mt = board.MovePiece
		case 't':
			mt = board.MoveTrap
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadMoveType, body[i])
		}
		i++

		moves = append(moves, board.Move{
			Position: board.PositionAt(idx, size),
			Type:     mt,
			Order:    order,
		})
		order++
	}

	b := board.New(SharedBoardName, size)
	b.Moves = moves
	b.Repaint()
	return b, nil
}

// scanGoal parses the column digits and trailing 'f' of a goal token,
// starting just past the 'G'. It returns the column and the offset past the
// token. The column is unpadded and unbounded.
func scanGoal(body string, start int) (col, rest int, err error) {
	i := start
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i == start {
		if i < len(body) && body[i] != 'f' {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadGoalColumn, body[i])
		}
		return 0, 0, fmt.Errorf("%w: missing column", ErrBadGoalToken)
	}
	if i >= len(body) || body[i] != 'f' {
		return 0, 0, fmt.Errorf("%w: missing trailing 'f'", ErrBadGoalToken)
	}
	col, aerr := strconv.Atoi(body[start:i])
	if aerr != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadGoalColumn, body[start:i])
	}
	return col, i + 1, nil
}

// indexWidth is the zero-padding width for flattened positions: every index
// on the grid prints at the width of the largest one.
func indexWidth(size int) int {
	return len(strconv.Itoa(size*size - 1))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
