package confess

import (
	"context"
	"fmt"
	"math"

	"github.com/xraph/confess/content"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/ratelimit"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// ──────────────────────────────────────────────────
// Confessions
// ──────────────────────────────────────────────────

// PostConfession stores a confession by its content commitment. length is
// the byte length of the plaintext behind hash. It returns the new id.
func (e *Engine) PostConfession(ctx context.Context, author types.Address, category content.Category, hash types.Hash, length int) (uint64, error) {
	res, err := e.Execute(ctx, &PostConfession{Author: author, Category: category, ContentHash: hash, Length: length})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (e *Engine) applyPostConfession(o *op, c *PostConfession) (uint64, error) {
	if err := requireAddress("author", c.Author); err != nil {
		return 0, err
	}
	if !c.Category.Valid() {
		return 0, ValidationError{Field: "category", Message: c.Category.String(), Err: ErrInvalidCategory}
	}
	if err := validateContent(c.ContentHash, c.Length, content.MaxConfessionLength); err != nil {
		return 0, err
	}
	if err := requireAccess(o, c.Author); err != nil {
		return 0, err
	}
	if err := e.limit(o, c.Author, ratelimit.ActionConfession); err != nil {
		return 0, err
	}

	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return 0, err
	}
	conf := &content.Confession{
		ID:          uint64(counters.TotalConfessions) + 1,
		ContentHash: c.ContentHash,
		Category:    c.Category,
		Timestamp:   o.now,
	}
	if err := o.tx.PutConfession(o.ctx, conf); err != nil {
		return 0, err
	}

	counters.TotalConfessions++
	counters.ByCategory[c.Category]++
	if err := o.tx.PutCounters(o.ctx, counters); err != nil {
		return 0, err
	}

	o.emit(&plugin.ConfessionPosted{Confession: *conf})
	return conf.ID, nil
}

// GetConfession returns one confession.
func (e *Engine) GetConfession(ctx context.Context, confessionID uint64) (*content.Confession, error) {
	var conf *content.Confession
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		conf, err = tx.GetConfession(ctx, confessionID)
		return err
	})
	return conf, err
}

// GetConfessionsByRange returns the confessions with ids startID through
// startID+count-1 in ascending order. Ids that do not exist yet come back as
// zero confessions (ID 0) so the result always has count entries. count is
// at most content.MaxRange.
func (e *Engine) GetConfessionsByRange(ctx context.Context, startID, count uint64) ([]content.Confession, error) {
	if count > content.MaxRange {
		return nil, ValidationError{Field: "count", Message: fmt.Sprintf("must not exceed %d", content.MaxRange)}
	}
	if startID > math.MaxUint64-count {
		return nil, ValidationError{Field: "start_id", Message: "range overflows the id space"}
	}
	out := make([]content.Confession, count)
	err := e.view(ctx, func(tx store.Tx) error {
		counters, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		total := uint64(counters.TotalConfessions)
		for i := range count {
			cid := startID + i
			if cid == 0 || cid > total {
				continue
			}
			conf, err := tx.GetConfession(ctx, cid)
			if err != nil {
				return err
			}
			out[i] = *conf
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetConfessionsByCategory pages through one category in posting order.
func (e *Engine) GetConfessionsByCategory(ctx context.Context, category content.Category, offset, limit int) ([]content.Confession, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	var out []content.Confession
	err := e.view(ctx, func(tx store.Tx) error {
		ids, err := tx.ListConfessionsByCategory(ctx, category, content.ListOpts{Offset: offset, Limit: limit})
		if err != nil {
			return err
		}
		out = make([]content.Confession, 0, len(ids))
		for _, cid := range ids {
			conf, err := tx.GetConfession(ctx, cid)
			if err != nil {
				return err
			}
			out = append(out, *conf)
		}
		return nil
	})
	return out, err
}

// GetTotalConfessions returns how many confessions were ever posted.
func (e *Engine) GetTotalConfessions(ctx context.Context) (int64, error) {
	s, err := e.counters(ctx)
	if err != nil {
		return 0, err
	}
	return s.TotalConfessions, nil
}

// GetConfessionCountByCategory returns how many confessions carry category.
func (e *Engine) GetConfessionCountByCategory(ctx context.Context, category content.Category) (int64, error) {
	if !category.Valid() {
		return 0, ErrInvalidCategory
	}
	s, err := e.counters(ctx)
	if err != nil {
		return 0, err
	}
	return s.ByCategory[category], nil
}

// ──────────────────────────────────────────────────
// Comments
// ──────────────────────────────────────────────────

// PostComment stores a comment on an existing confession and returns its id.
func (e *Engine) PostComment(ctx context.Context, author types.Address, confessionID uint64, hash types.Hash, length int) (uint64, error) {
	res, err := e.Execute(ctx, &PostComment{Author: author, ConfessionID: confessionID, ContentHash: hash, Length: length})
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

func (e *Engine) applyPostComment(o *op, c *PostComment) (uint64, error) {
	if err := requireAddress("author", c.Author); err != nil {
		return 0, err
	}
	if err := validateContent(c.ContentHash, c.Length, content.MaxCommentLength); err != nil {
		return 0, err
	}
	conf, err := o.tx.GetConfession(o.ctx, c.ConfessionID)
	if err != nil {
		return 0, err
	}
	if err := requireAccess(o, c.Author); err != nil {
		return 0, err
	}
	if err := e.limit(o, c.Author, ratelimit.ActionComment); err != nil {
		return 0, err
	}

	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return 0, err
	}
	cm := &content.Comment{
		ID:           uint64(counters.TotalComments) + 1,
		ConfessionID: conf.ID,
		ContentHash:  c.ContentHash,
		Timestamp:    o.now,
	}
	if err := o.tx.PutComment(o.ctx, cm); err != nil {
		return 0, err
	}

	conf.TotalComments++
	if err := o.tx.PutConfession(o.ctx, conf); err != nil {
		return 0, err
	}
	counters.TotalComments++
	if err := o.tx.PutCounters(o.ctx, counters); err != nil {
		return 0, err
	}

	o.emit(&plugin.CommentPosted{Comment: *cm})
	return cm.ID, nil
}

// GetComment returns one comment.
func (e *Engine) GetComment(ctx context.Context, commentID uint64) (*content.Comment, error) {
	var cm *content.Comment
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		cm, err = tx.GetComment(ctx, commentID)
		return err
	})
	return cm, err
}

// GetCommentsForConfession pages through a confession's comments in posting order.
func (e *Engine) GetCommentsForConfession(ctx context.Context, confessionID uint64, offset, limit int) ([]content.Comment, error) {
	var out []content.Comment
	err := e.view(ctx, func(tx store.Tx) error {
		if _, err := tx.GetConfession(ctx, confessionID); err != nil {
			return err
		}
		ids, err := tx.ListComments(ctx, confessionID, content.ListOpts{Offset: offset, Limit: limit})
		if err != nil {
			return err
		}
		out = make([]content.Comment, 0, len(ids))
		for _, cid := range ids {
			cm, err := tx.GetComment(ctx, cid)
			if err != nil {
				return err
			}
			out = append(out, *cm)
		}
		return nil
	})
	return out, err
}

// GetCommentCount returns how many comments a confession has.
func (e *Engine) GetCommentCount(ctx context.Context, confessionID uint64) (int64, error) {
	conf, err := e.GetConfession(ctx, confessionID)
	if err != nil {
		return 0, err
	}
	return conf.TotalComments, nil
}

func validateContent(hash types.Hash, length, maxLen int) error {
	if hash.IsZero() || length <= 0 {
		return ValidationError{Field: "content", Message: "content is empty", Err: ErrEmptyContent}
	}
	if length > maxLen {
		return ValidationError{Field: "content", Message: "content exceeds maximum length", Err: ErrContentTooLong}
	}
	return nil
}
