package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/confess/payment"
	"github.com/xraph/confess/types"
)

var (
	tokenAddr = types.BytesToAddress([]byte{0xaa})
	alice     = types.BytesToAddress([]byte{0x01})
	treasury  = types.BytesToAddress([]byte{0x02})
)

func TestTransferFromSpendsAllowance(t *testing.T) {
	ctx := context.Background()
	tok := payment.NewMemoryToken(tokenAddr)
	tok.Mint(alice, types.WholeUSDC(5))
	require.NoError(t, tok.Approve(ctx, alice, treasury, types.WholeUSDC(2)))

	require.NoError(t, tok.TransferFrom(ctx, treasury, alice, treasury, types.WholeUSDC(1)))

	allowance, err := tok.Allowance(ctx, alice, treasury)
	require.NoError(t, err)
	assert.Equal(t, types.WholeUSDC(1), allowance)

	bal, err := tok.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, types.WholeUSDC(4), bal)

	bal, err = tok.BalanceOf(ctx, treasury)
	require.NoError(t, err)
	assert.Equal(t, types.WholeUSDC(1), bal)
}

func TestTransferFromFailures(t *testing.T) {
	ctx := context.Background()
	tok := payment.NewMemoryToken(tokenAddr)
	tok.Mint(alice, types.USDC(500_000))

	err := tok.TransferFrom(ctx, treasury, alice, treasury, types.WholeUSDC(1))
	assert.ErrorIs(t, err, payment.ErrInsufficientAllowance)

	require.NoError(t, tok.Approve(ctx, alice, treasury, types.WholeUSDC(1)))
	err = tok.TransferFrom(ctx, treasury, alice, treasury, types.WholeUSDC(1))
	assert.ErrorIs(t, err, payment.ErrInsufficientBalance)

	// Failed transfers leave balances and allowance untouched.
	bal, _ := tok.BalanceOf(ctx, alice)
	assert.Equal(t, types.USDC(500_000), bal)
	allowance, _ := tok.Allowance(ctx, alice, treasury)
	assert.Equal(t, types.WholeUSDC(1), allowance)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	tok := payment.NewMemoryToken(tokenAddr)
	tok.Mint(treasury, types.WholeUSDC(3))

	require.NoError(t, tok.Transfer(ctx, treasury, alice, types.WholeUSDC(2)))
	assert.ErrorIs(t, tok.Transfer(ctx, treasury, alice, types.WholeUSDC(2)), payment.ErrInsufficientBalance)
	assert.Error(t, tok.Transfer(ctx, treasury, alice, types.USDC(-1)))
	assert.Equal(t, tokenAddr, tok.Address())
}
