package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashLength is the byte length of a content commitment.
const HashLength = 32

// Hash is a Keccak-256 commitment to a piece of plaintext content.
// The platform stores and compares only hashes; plaintext stays with the caller.
type Hash [HashLength]byte

// ZeroHash is the empty commitment. Content with a zero hash is rejected.
var ZeroHash Hash

// HashContent computes the Keccak-256 commitment of text, the same digest
// clients publish alongside the plaintext they keep off-platform.
func HashContent(text string) Hash {
	var h Hash
	d := sha3.NewLegacyKeccak256()
	d.Write([]byte(text))
	d.Sum(h[:0])
	return h
}

// ParseHash parses a 64 digit hex hash, with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	var h Hash

	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != HashLength*2 {
		return h, fmt.Errorf("types: parse hash %q: want %d hex digits, got %d", s, HashLength*2, len(raw))
	}

	if _, err := hex.Decode(h[:], []byte(raw)); err != nil {
		return h, fmt.Errorf("types: parse hash %q: %w", s, err)
	}

	return h, nil
}

// IsZero reports whether h is the empty commitment.
func (h Hash) IsZero() bool { return h == ZeroHash }

// String returns the lowercase 0x-prefixed hex form.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(data []byte) error {
	parsed, err := ParseHash(string(data))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
