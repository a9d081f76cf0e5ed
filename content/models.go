// Package content holds confessions and their comments.
//
// Content is addressed only by a Keccak-256 commitment to its plaintext; the
// plaintext itself never reaches the platform.
package content

import (
	"fmt"
	"time"

	"github.com/xraph/confess/types"
)

// Maximum declared plaintext lengths, in bytes.
const (
	MaxConfessionLength = 500
	MaxCommentLength    = 200
)

// MaxRange is the most confessions one range read returns.
const MaxRange = 1000

// Category tags a confession.
type Category uint8

const (
	CategoryLove Category = iota
	CategoryWork
	CategorySecrets
	CategoryControversial
	CategoryLife
	CategoryOther
)

// NumCategories is the number of defined categories.
const NumCategories = int(CategoryOther) + 1

var categoryNames = [NumCategories]string{"love", "work", "secrets", "controversial", "life", "other"}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is a defined category.
func (c Category) Valid() bool { return int(c) < NumCategories }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ParseCategory parses a category name as produced by String.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("content: unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("content: invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(data []byte) error {
	parsed, err := ParseCategory(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Confession struct {
	ID             uint64     `json:"id"`
	ContentHash    types.Hash `json:"content_hash"`
	Category       Category   `json:"category"`
	Timestamp      time.Time  `json:"timestamp"`
	IsHidden       bool       `json:"is_hidden"`
	TotalReactions int64      `json:"total_reactions"`
	TotalComments  int64      `json:"total_comments"`
	ReportCount    int64      `json:"report_count"`
}

// Exists reports whether c refers to a stored confession. Ids start at 1;
// the zero id is the sentinel for "no such confession".
func (c *Confession) Exists() bool { return c != nil && c.ID != 0 }

type Comment struct {
	ID             uint64     `json:"id"`
	ConfessionID   uint64     `json:"confession_id"`
	ContentHash    types.Hash `json:"content_hash"`
	Timestamp      time.Time  `json:"timestamp"`
	IsDeleted      bool       `json:"is_deleted"`
	TotalReactions int64      `json:"total_reactions"`
	ReportCount    int64      `json:"report_count"`
}

// Exists reports whether c refers to a stored comment.
func (c *Comment) Exists() bool { return c != nil && c.ID != 0 }

type ListOpts struct {
	Limit  int
	Offset int
}

// Page applies opts to a slice of ids in insertion order.
func Page(ids []uint64, opts ListOpts) []uint64 {
	if opts.Offset < 0 || opts.Offset >= len(ids) {
		return []uint64{}
	}
	end := len(ids)
	if opts.Limit > 0 && opts.Offset+opts.Limit < end {
		end = opts.Offset + opts.Limit
	}
	out := make([]uint64, end-opts.Offset)
	copy(out, ids[opts.Offset:end])
	return out
}
