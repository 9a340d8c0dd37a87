// Package library stores the player's boards, opponents, and round history.
//
// Boards are persisted in their codec string form: the encoded string
// carries moves and grid, and the record carries the identity fields the
// codec drops (id, name, thumbnail, creation time). GetBoard reassembles the
// full board from both halves.
//
// Three backends implement Store: an in-memory map store for tests and
// throwaway play, a SQLite store for state that should survive a restart,
// and a one-JSON-file-per-record store for libraries meant to be read or
// edited by hand. Storage here is best-effort local state, not a durability
// contract; the rules, match, and codec packages never depend on it.
package library
