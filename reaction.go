package confess

import (
	"context"
	"errors"

	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/reaction"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// ──────────────────────────────────────────────────
// Reactions
// ──────────────────────────────────────────────────

// React records actor's reaction on subject. An actor holds at most one
// reaction per subject.
func (e *Engine) React(ctx context.Context, actor types.Address, subject reaction.Subject, t reaction.Type) error {
	_, err := e.Execute(ctx, &React{Actor: actor, Subject: subject, Type: t})
	return err
}

// ChangeReaction replaces actor's reaction on subject with t.
func (e *Engine) ChangeReaction(ctx context.Context, actor types.Address, subject reaction.Subject, t reaction.Type) error {
	_, err := e.Execute(ctx, &ChangeReaction{Actor: actor, Subject: subject, Type: t})
	return err
}

// RemoveReaction deletes actor's reaction on subject.
func (e *Engine) RemoveReaction(ctx context.Context, actor types.Address, subject reaction.Subject) error {
	_, err := e.Execute(ctx, &RemoveReaction{Actor: actor, Subject: subject})
	return err
}

func (e *Engine) applyReact(o *op, c *React) error {
	if err := validateReaction(c.Actor, c.Subject); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return ValidationError{Field: "type", Message: c.Type.String(), Err: ErrInvalidReactionType}
	}
	if err := adjustSubjectTotal(o, c.Subject, 0); err != nil {
		return err
	}
	if err := requireAccess(o, c.Actor); err != nil {
		return err
	}

	key := reaction.Key{Subject: c.Subject, Actor: c.Actor}
	if _, err := o.tx.GetReaction(o.ctx, key); err == nil {
		return ErrAlreadyReacted
	} else if !errors.Is(err, ErrNoReaction) {
		return err
	}

	r := &reaction.Reaction{Subject: c.Subject, Actor: c.Actor, Type: c.Type, Timestamp: o.now}
	if err := o.tx.PutReaction(o.ctx, r); err != nil {
		return err
	}
	if err := bumpCount(o, c.Subject, c.Type, 1); err != nil {
		return err
	}
	if err := adjustSubjectTotal(o, c.Subject, 1); err != nil {
		return err
	}
	if err := adjustReactionTotal(o, 1); err != nil {
		return err
	}

	o.emit(&plugin.ReactionAdded{Reaction: *r})
	return nil
}

func (e *Engine) applyChangeReaction(o *op, c *ChangeReaction) error {
	if err := validateReaction(c.Actor, c.Subject); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return ValidationError{Field: "type", Message: c.Type.String(), Err: ErrInvalidReactionType}
	}
	if err := requireAccess(o, c.Actor); err != nil {
		return err
	}

	r, err := o.tx.GetReaction(o.ctx, reaction.Key{Subject: c.Subject, Actor: c.Actor})
	if err != nil {
		return err
	}
	prev := r.Type

	if err := bumpCount(o, c.Subject, prev, -1); err != nil {
		return err
	}
	if err := bumpCount(o, c.Subject, c.Type, 1); err != nil {
		return err
	}
	r.Type = c.Type
	r.Timestamp = o.now
	if err := o.tx.PutReaction(o.ctx, r); err != nil {
		return err
	}

	o.emit(&plugin.ReactionChanged{Reaction: *r, Previous: prev})
	return nil
}

func (e *Engine) applyRemoveReaction(o *op, c *RemoveReaction) error {
	if err := validateReaction(c.Actor, c.Subject); err != nil {
		return err
	}
	if err := requireAccess(o, c.Actor); err != nil {
		return err
	}

	key := reaction.Key{Subject: c.Subject, Actor: c.Actor}
	r, err := o.tx.GetReaction(o.ctx, key)
	if err != nil {
		return err
	}
	if err := o.tx.DeleteReaction(o.ctx, key); err != nil {
		return err
	}
	if err := bumpCount(o, c.Subject, r.Type, -1); err != nil {
		return err
	}
	if err := adjustSubjectTotal(o, c.Subject, -1); err != nil {
		return err
	}
	if err := adjustReactionTotal(o, -1); err != nil {
		return err
	}

	o.emit(&plugin.ReactionRemoved{Subject: c.Subject, Actor: c.Actor, Type: r.Type, At: o.now})
	return nil
}

func validateReaction(actor types.Address, subject reaction.Subject) error {
	if err := requireAddress("actor", actor); err != nil {
		return err
	}
	if !subject.Kind.Valid() {
		return ValidationError{Field: "subject", Message: subject.Kind.String(), Err: ErrInvalidSubjectKind}
	}
	return nil
}

func bumpCount(o *op, subject reaction.Subject, t reaction.Type, delta int64) error {
	counts, err := o.tx.GetReactionCounts(o.ctx, subject)
	if err != nil {
		return err
	}
	counts[t] += delta
	return o.tx.PutReactionCounts(o.ctx, subject, counts)
}

// adjustSubjectTotal adds delta to the reacted-to entity's reaction total.
// A zero delta only checks that the subject exists.
func adjustSubjectTotal(o *op, subject reaction.Subject, delta int64) error {
	switch subject.Kind {
	case reaction.KindConfession:
		conf, err := o.tx.GetConfession(o.ctx, subject.ID)
		if err != nil || delta == 0 {
			return err
		}
		conf.TotalReactions += delta
		return o.tx.PutConfession(o.ctx, conf)
	case reaction.KindComment:
		cm, err := o.tx.GetComment(o.ctx, subject.ID)
		if err != nil || delta == 0 {
			return err
		}
		cm.TotalReactions += delta
		return o.tx.PutComment(o.ctx, cm)
	}
	return ErrInvalidSubjectKind
}

func adjustReactionTotal(o *op, delta int64) error {
	counters, err := o.tx.GetCounters(o.ctx)
	if err != nil {
		return err
	}
	counters.TotalReactions += delta
	return o.tx.PutCounters(o.ctx, counters)
}

// GetReactionCounts returns the live reaction count per type on subject.
func (e *Engine) GetReactionCounts(ctx context.Context, subject reaction.Subject) (reaction.Counts, error) {
	var counts reaction.Counts
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		counts, err = tx.GetReactionCounts(ctx, subject)
		return err
	})
	return counts, err
}

// GetMyReaction returns actor's reaction on subject. Exists is false when
// the actor has none.
func (e *Engine) GetMyReaction(ctx context.Context, actor types.Address, subject reaction.Subject) (reaction.Mine, error) {
	var mine reaction.Mine
	err := e.view(ctx, func(tx store.Tx) error {
		r, err := tx.GetReaction(ctx, reaction.Key{Subject: subject, Actor: actor})
		if errors.Is(err, ErrNoReaction) {
			return nil
		}
		if err != nil {
			return err
		}
		mine = reaction.Mine{Type: r.Type, Timestamp: r.Timestamp, Exists: true}
		return nil
	})
	return mine, err
}
