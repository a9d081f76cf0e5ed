package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/confess/types"
)

// compile-time interface check
var _ Token = (*MemoryToken)(nil)

type allowanceKey struct {
	owner, spender types.Address
}

// MemoryToken is an in-process ERC-20 style token used by tests, the CLI and
// single-node deployments that settle payments off-platform.
type MemoryToken struct {
	mu         sync.RWMutex
	address    types.Address
	balances   map[types.Address]types.Amount
	allowances map[allowanceKey]types.Amount
}

// NewMemoryToken creates an empty token at address.
func NewMemoryToken(address types.Address) *MemoryToken {
	return &MemoryToken{
		address:    address,
		balances:   make(map[types.Address]types.Amount),
		allowances: make(map[allowanceKey]types.Amount),
	}
}

// Address returns the token address.
func (t *MemoryToken) Address() types.Address { return t.address }

// Mint credits amount to account.
func (t *MemoryToken) Mint(account types.Address, amount types.Amount) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[account] = t.balances[account].Add(amount)
}

// Approve sets the amount spender may pull from owner.
func (t *MemoryToken) Approve(_ context.Context, owner, spender types.Address, amount types.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("payment: approve negative amount %s", amount)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.allowances[allowanceKey{owner, spender}] = amount
	return nil
}

func (t *MemoryToken) Allowance(_ context.Context, owner, spender types.Address) (types.Amount, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowances[allowanceKey{owner, spender}], nil
}

func (t *MemoryToken) BalanceOf(_ context.Context, account types.Address) (types.Amount, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[account], nil
}

func (t *MemoryToken) TransferFrom(_ context.Context, spender, from, to types.Address, amount types.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("payment: transfer negative amount %s", amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := allowanceKey{from, spender}
	if t.allowances[key] < amount {
		return ErrInsufficientAllowance
	}
	if t.balances[from] < amount {
		return ErrInsufficientBalance
	}

	t.allowances[key] = t.allowances[key].Sub(amount)
	t.move(from, to, amount)
	return nil
}

func (t *MemoryToken) Transfer(_ context.Context, from, to types.Address, amount types.Amount) error {
	if amount.IsNegative() {
		return fmt.Errorf("payment: transfer negative amount %s", amount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[from] < amount {
		return ErrInsufficientBalance
	}
	t.move(from, to, amount)
	return nil
}

func (t *MemoryToken) move(from, to types.Address, amount types.Amount) {
	t.balances[from] = t.balances[from].Sub(amount)
	t.balances[to] = t.balances[to].Add(amount)
}
