// Package reaction records exclusive per-actor reactions on confessions and
// comments, with aggregate counts per reaction type.
package reaction

import (
	"fmt"
	"time"

	"github.com/xraph/confess/types"
)

// Type is the kind of reaction an actor leaves.
type Type uint8

const (
	TypeLike Type = iota
	TypeLove
	TypeThinking
	TypeFire
	TypeSad
)

// NumTypes is the number of defined reaction types.
const NumTypes = int(TypeSad) + 1

var typeNames = [NumTypes]string{"like", "love", "thinking", "fire", "sad"}

// Valid reports whether t is a defined reaction type.
func (t Type) Valid() bool { return int(t) < NumTypes }

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("reaction(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParseType parses a reaction type name.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("reaction: unknown type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("reaction: invalid type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(data []byte) error {
	parsed, err := ParseType(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Kind says what a reaction is attached to.
type Kind uint8

const (
	KindConfession Kind = iota
	KindComment
)

// Valid reports whether k is a defined subject kind.
func (k Kind) Valid() bool { return k == KindConfession || k == KindComment }

func (k Kind) String() string {
	switch k {
	case KindConfession:
		return "confession"
	case KindComment:
		return "comment"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("reaction: invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "confession":
		*k = KindConfession
	case "comment":
		*k = KindComment
	default:
		return fmt.Errorf("reaction: unknown kind %q", data)
	}
	return nil
}

// Subject identifies a reactable piece of content.
type Subject struct {
	Kind Kind   `json:"kind"`
	ID   uint64 `json:"id"`
}

// Confession returns the subject for a confession id.
func Confession(confessionID uint64) Subject { return Subject{Kind: KindConfession, ID: confessionID} }

// Comment returns the subject for a comment id.
func Comment(commentID uint64) Subject { return Subject{Kind: KindComment, ID: commentID} }

func (s Subject) String() string { return fmt.Sprintf("%s/%d", s.Kind, s.ID) }

// Key identifies the single live reaction one actor may hold on a subject.
type Key struct {
	Subject Subject
	Actor   types.Address
}

type Reaction struct {
	Subject   Subject       `json:"subject"`
	Actor     types.Address `json:"actor"`
	Type      Type          `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
}

// Key returns the reaction's key.
func (r *Reaction) Key() Key { return Key{Subject: r.Subject, Actor: r.Actor} }

// Counts holds the number of live reactions of each type on one subject.
type Counts [NumTypes]int64

// Total returns the number of live reactions across all types.
func (c Counts) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// Mine is an actor's view of their own reaction on a subject.
type Mine struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Exists    bool      `json:"exists"`
}
