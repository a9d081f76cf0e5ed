package confess

import (
	"context"
	"fmt"

	"github.com/xraph/confess/moderation"
	"github.com/xraph/confess/platform"
	"github.com/xraph/confess/plugin"
	"github.com/xraph/confess/store"
	"github.com/xraph/confess/types"
)

// ──────────────────────────────────────────────────
// Owner operations
// ──────────────────────────────────────────────────

// UpdateModerationSettings changes the settings applied to reports filed
// from now on. Open reports keep the settings they were filed under.
func (e *Engine) UpdateModerationSettings(ctx context.Context, caller types.Address, s moderation.Settings) error {
	_, err := e.Execute(ctx, &UpdateModerationSettings{Caller: caller, Settings: s})
	return err
}

// EmergencyHideConfession hides a confession regardless of any vote.
func (e *Engine) EmergencyHideConfession(ctx context.Context, caller types.Address, confessionID uint64) error {
	_, err := e.Execute(ctx, &EmergencyHideConfession{Caller: caller, ConfessionID: confessionID})
	return err
}

// WithdrawFunds moves amount from the treasury to to.
func (e *Engine) WithdrawFunds(ctx context.Context, caller, to types.Address, amount types.Amount) error {
	_, err := e.Execute(ctx, &WithdrawFunds{Caller: caller, To: to, Amount: amount})
	return err
}

// TransferOwnership hands the owner role to newOwner.
func (e *Engine) TransferOwnership(ctx context.Context, caller, newOwner types.Address) error {
	_, err := e.Execute(ctx, &TransferOwnership{Caller: caller, NewOwner: newOwner})
	return err
}

func (e *Engine) applyUpdateModerationSettings(o *op, c *UpdateModerationSettings) error {
	p, err := requireOwner(o, c.Caller)
	if err != nil {
		return err
	}
	if err := c.Settings.Validate(); err != nil {
		return ValidationError{Field: "settings", Message: err.Error(), Err: ErrInvalidSettings}
	}

	prev := p.Moderation
	p.Moderation = c.Settings
	if err := o.tx.PutPlatform(o.ctx, p); err != nil {
		return err
	}

	o.emit(&plugin.SettingsUpdated{Previous: prev, Current: c.Settings, At: o.now})
	return nil
}

func (e *Engine) applyEmergencyHide(o *op, c *EmergencyHideConfession) error {
	if _, err := requireOwner(o, c.Caller); err != nil {
		return err
	}
	if err := hideConfession(o, c.ConfessionID); err != nil {
		return err
	}

	o.emit(&plugin.ContentHidden{
		Target: moderation.Target{Type: moderation.TargetConfession, ID: c.ConfessionID},
		At:     o.now,
	})
	return nil
}

func (e *Engine) applyWithdrawFunds(o *op, c *WithdrawFunds) error {
	p, err := requireOwner(o, c.Caller)
	if err != nil {
		return err
	}
	if err := requireAddress("to", c.To); err != nil {
		return err
	}
	if !c.Amount.IsPositive() {
		return ValidationError{Field: "amount", Message: "must be positive", Err: ErrInvalidAmount}
	}

	p.Withdrawn = p.Withdrawn.Add(c.Amount)
	if err := o.tx.PutPlatform(o.ctx, p); err != nil {
		return err
	}

	if o.live {
		balance, err := e.token.BalanceOf(o.ctx, e.treasury)
		if err != nil {
			return err
		}
		if balance < c.Amount {
			return fmt.Errorf("%w: treasury holds %s, requested %s", ErrInsufficientBalance, balance, c.Amount)
		}
		if err := e.token.Transfer(o.ctx, e.treasury, c.To, c.Amount); err != nil {
			return err
		}
	}

	o.emit(&plugin.FundsWithdrawn{To: c.To, Amount: c.Amount, At: o.now})
	return nil
}

func (e *Engine) applyTransferOwnership(o *op, c *TransferOwnership) error {
	p, err := requireOwner(o, c.Caller)
	if err != nil {
		return err
	}
	if err := requireAddress("new_owner", c.NewOwner); err != nil {
		return err
	}

	prev := p.Owner
	p.Owner = c.NewOwner
	if err := o.tx.PutPlatform(o.ctx, p); err != nil {
		return err
	}

	o.emit(&plugin.OwnershipTransferred{Previous: prev, Current: c.NewOwner, At: o.now})
	return nil
}

// ──────────────────────────────────────────────────
// Platform reads
// ──────────────────────────────────────────────────

// GetContractBalance returns the treasury's token balance.
func (e *Engine) GetContractBalance(ctx context.Context) (types.Amount, error) {
	return e.token.BalanceOf(ctx, e.treasury)
}

// ModerationSettings returns the settings new reports are filed under.
func (e *Engine) ModerationSettings(ctx context.Context) (moderation.Settings, error) {
	p, err := e.platform(ctx)
	if err != nil {
		return moderation.Settings{}, err
	}
	return p.Moderation, nil
}

// Owner returns the identity holding the owner role.
func (e *Engine) Owner(ctx context.Context) (types.Address, error) {
	p, err := e.platform(ctx)
	if err != nil {
		return types.ZeroAddress, err
	}
	return p.Owner, nil
}

// Platform returns the platform record, including the treasury accounting.
func (e *Engine) Platform(ctx context.Context) (*platform.State, error) {
	return e.platform(ctx)
}

func (e *Engine) platform(ctx context.Context) (*platform.State, error) {
	var p *platform.State
	err := e.view(ctx, func(tx store.Tx) error {
		var err error
		p, err = tx.GetPlatform(ctx)
		return err
	})
	return p, err
}
