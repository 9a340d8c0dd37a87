// Package challenge seals a round's board into a single copyable string and
// opens strings received from a peer.
//
// The game is asynchronous: players exchange boards over whatever channel
// they like (chat, mail, a pasted link), so the envelope has to be one
// URL-safe token. Seal wraps a Challenge as JSON, deflates it, and armors it
// with URL-safe base64 under the "GD1." prefix; Open reverses that and
// reports malformed input with typed errors.
//
// The envelope is encoding only. It does not authenticate the sender and it
// does not validate the board inside; receivers hand Challenge.Board to the
// codec and rules packages before play, the same discipline as any other
// untrusted text.
package challenge
