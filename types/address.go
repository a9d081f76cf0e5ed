// Package types provides the value types shared across Confess.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte length of an Address.
const AddressLength = 20

// Address identifies an account on the platform: members, the owner,
// the treasury and the payment token itself.
type Address [AddressLength]byte

// ZeroAddress is the null address. It is never a valid participant.
var ZeroAddress Address

// ParseAddress parses a hex address, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address

	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != AddressLength*2 {
		return a, fmt.Errorf("types: parse address %q: want %d hex digits, got %d", s, AddressLength*2, len(raw))
	}

	if _, err := hex.Decode(a[:], []byte(raw)); err != nil {
		return a, fmt.Errorf("types: parse address %q: %w", s, err)
	}

	return a, nil
}

// MustAddress is like ParseAddress but panics on error. Use for hardcoded values.
func MustAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress returns the address whose trailing bytes are b.
// Longer inputs are truncated from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the lowercase 0x-prefixed hex form.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(data []byte) error {
	parsed, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
