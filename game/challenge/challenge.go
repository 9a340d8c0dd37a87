package challenge

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Version is the envelope version this package seals and accepts.
const Version = 1

// Prefix marks a sealed challenge string and pins the envelope generation;
// everything after it is base64.
const Prefix = "GD1."

// Open failure classes, matched with errors.Is. Any of them means the string
// is not a usable challenge; there is no partial recovery.
var (
	ErrBadPrefix    = errors.New("not a challenge string")
	ErrBadTransport = errors.New("unreadable challenge payload")
	ErrBadPayload   = errors.New("malformed challenge payload")
	ErrVersion      = errors.New("unsupported challenge version")
)

// Challenge carries one round's board from one peer to another as a single
// copyable string. Board holds the codec string form; Open performs no board
// validation, so receivers decode and validate it before play.
type Challenge struct {
	Version  int       `json:"v"`
	From     string    `json:"from,omitempty"`
	Round    int       `json:"round"`
	Note     string    `json:"note,omitempty"`
	Board    string    `json:"board"`
	IssuedAt time.Time `json:"issued_at"`
}

// Seal packs a challenge into its transportable string: JSON, deflated, then
// URL-safe base64 under the version prefix. The version is stamped and a
// missing issue time is filled in.
func Seal(c Challenge) (string, error) {
	if c.Board == "" {
		return "", errors.New("seal: challenge has no board")
	}
	c.Version = Version
	if c.IssuedAt.IsZero() {
		c.IssuedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	if _, err := zw.Write(payload); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	return Prefix + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Open unpacks a sealed challenge string. It is the trust boundary for
// pasted text: every malformation maps to one of the exported Err* classes.
func Open(s string) (Challenge, error) {
	var c Challenge

	rest, ok := strings.CutPrefix(strings.TrimSpace(s), Prefix)
	if !ok {
		return c, fmt.Errorf("%w: missing %q prefix", ErrBadPrefix, Prefix)
	}

	raw, err := base64.RawURLEncoding.DecodeString(rest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadTransport, err)
	}

	zr := flate.NewReader(bytes.NewReader(raw))
	defer zr.Close()
	payload, err := io.ReadAll(zr)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadTransport, err)
	}

	if err := json.Unmarshal(payload, &c); err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if c.Version != Version {
		return c, fmt.Errorf("%w: %d", ErrVersion, c.Version)
	}
	return c, nil
}
