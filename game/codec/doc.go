// Package codec reads and writes the compact board string two peers exchange.
//
// The format is "<size>|<token><token>...": a decimal size, a literal '|',
// then one token per move in order. A piece or trap token is the move's
// flattened position (row*size+col) zero-padded to the width of the grid's
// largest index, followed by 'p' or 't'. A final move is the literal 'G',
// the unpadded goal column, and a trailing 'f'.
//
//	"2|0p3tG0f"        piece (0,0), trap (1,1), exit at column 0
//	"10|00p55t99pG0f"  two-digit padding on a 10x10 grid
//
// Decode is the trust boundary for untrusted text: every malformation maps
// to one of the exported Err* classes and callers reject the input outright.
// Decode guarantees syntax, not legality; it will happily return positions
// off the grid, which the rules package rejects.
//
// Encoding drops identity: id, name, thumbnail, and creation time do not
// survive a round trip. Moves and grid do, exactly.
package codec
