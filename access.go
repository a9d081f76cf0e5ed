package confess

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/confess/access"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// ──────────────────────────────────────────────────
// Access
// ──────────────────────────────────────────────────

// PurchaseAccess pulls one period's price from payer into the treasury and
// extends payer's membership. The payer must have approved the treasury as
// spender for at least the price.
func (e *Engine) PurchaseAccess(ctx context.Context, payer types.Address) (*access.Member, error) {
	res, err := e.Execute(ctx, &PurchaseAccess{Payer: payer, Price: e.price, Duration: e.duration})
	if err != nil {
		return nil, err
	}
	return res.(*access.Member), nil
}

func (e *Engine) applyPurchaseAccess(o *op, c *PurchaseAccess) (*access.Member, error) {
	if err := requireAddress("payer", c.Payer); err != nil {
		return nil, err
	}
	if !c.Price.IsPositive() || c.Duration <= 0 {
		return nil, ValidationError{Field: "price", Message: "price and duration must be positive", Err: ErrInvalidAmount}
	}

	if o.live {
		allowance, err := e.token.Allowance(o.ctx, c.Payer, e.treasury)
		if err != nil {
			return nil, err
		}
		if allowance < c.Price {
			return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientAllowance, allowance, c.Price)
		}
	}

	prev, err := o.tx.GetMember(o.ctx, c.Payer)
	if err != nil && !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}
	m := access.Renew(prev, c.Payer, o.now, c.Duration)
	if err := o.tx.PutMember(o.ctx, m); err != nil {
		return nil, err
	}

	if prev == nil {
		counters, err := o.tx.GetCounters(o.ctx)
		if err != nil {
			return nil, err
		}
		counters.TotalMembers++
		if err := o.tx.PutCounters(o.ctx, counters); err != nil {
			return nil, err
		}
	}

	p, err := o.tx.GetPlatform(o.ctx)
	if err != nil {
		return nil, err
	}
	p.Collected = p.Collected.Add(c.Price)
	if err := o.tx.PutPlatform(o.ctx, p); err != nil {
		return nil, err
	}

	// The transfer is the last step so a failed precondition never charges.
	if o.live {
		if err := e.token.TransferFrom(o.ctx, e.treasury, c.Payer, e.treasury, c.Price); err != nil {
			return nil, err
		}
		o.charged = &charge{payer: c.Payer, amount: c.Price}
	}

	o.emit(&plugin.AccessPurchased{Member: *m, Price: c.Price, Renewal: prev != nil, At: o.now})
	return m, nil
}

// HasActiveAccess reports whether addr holds a live membership now.
func (e *Engine) HasActiveAccess(ctx context.Context, addr types.Address) (bool, error) {
	m, err := e.member(ctx, addr)
	if err != nil {
		return false, err
	}
	return m.IsActive(e.now()), nil
}

// RemainingAccessTime returns how long addr's membership has left, zero
// when expired or never purchased.
func (e *Engine) RemainingAccessTime(ctx context.Context, addr types.Address) (time.Duration, error) {
	m, err := e.member(ctx, addr)
	if err != nil {
		return 0, err
	}
	return m.Remaining(e.now()), nil
}

// GetAccessDetails returns addr's membership as of now.
func (e *Engine) GetAccessDetails(ctx context.Context, addr types.Address) (access.Details, error) {
	m, err := e.member(ctx, addr)
	if err != nil {
		return access.Details{}, err
	}
	return m.DetailsAt(e.now()), nil
}

// GetExpirationTimestamp returns when addr's membership ends, the zero time
// if addr never purchased.
func (e *Engine) GetExpirationTimestamp(ctx context.Context, addr types.Address) (time.Time, error) {
	m, err := e.member(ctx, addr)
	if err != nil || m == nil {
		return time.Time{}, err
	}
	return m.ExpiresAt, nil
}

// GetTotalMembers returns how many identities ever purchased access.
func (e *Engine) GetTotalMembers(ctx context.Context) (int64, error) {
	var n int64
	err := e.view(ctx, func(tx store.Tx) error {
		c, err := tx.GetCounters(ctx)
		if err != nil {
			return err
		}
		n = c.TotalMembers
		return nil
	})
	return n, err
}

// member loads addr's membership, nil when there is none.
func (e *Engine) member(ctx context.Context, addr types.Address) (*access.Member, error) {
	var m *access.Member
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		m, err = tx.GetMember(ctx, addr)
		if errors.Is(err, ErrMemberNotFound) {
			return nil
		}
		return err
	})
	return m, err
}
