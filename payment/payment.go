// Package payment defines the fungible-token collaborator that moves access
// fees into the platform treasury, and an in-memory reference token.
//
// The token follows approve / allowance / transferFrom semantics: a payer
// approves the treasury as spender, and the engine pulls exactly the access
// price with TransferFrom.
package payment

import (
	"context"
	"errors"

	"github.com/xraph/confess/types"
)

// Sentinel errors returned by Token implementations.
var (
	ErrInsufficientAllowance = errors.New("confess: insufficient allowance")
	ErrInsufficientBalance   = errors.New("confess: insufficient balance")
)

// Token is the external value-transfer ledger.
type Token interface {
	// Address identifies the token contract. It is fixed for the engine's lifetime.
	Address() types.Address

	Allowance(ctx context.Context, owner, spender types.Address) (types.Amount, error)
	BalanceOf(ctx context.Context, account types.Address) (types.Amount, error)

	// TransferFrom moves amount from `from` to `to`, spending spender's allowance.
	TransferFrom(ctx context.Context, spender, from, to types.Address, amount types.Amount) error

	// Transfer moves amount the caller `from` already holds.
	Transfer(ctx context.Context, from, to types.Address, amount types.Amount) error
}
