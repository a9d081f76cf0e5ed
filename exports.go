package confess

import "github.com/xraph/confess/types"

// Re-export common types for convenience so users don't have to import types package.

// Address is re-exported from types package.
type Address = types.Address

// Hash is re-exported from types package.
type Hash = types.Hash

// Amount is re-exported from types package.
type Amount = types.Amount

// Re-export constructors
var (
	ParseAddress = types.ParseAddress
	HashContent  = types.HashContent
	USDC         = types.USDC
	WholeUSDC    = types.WholeUSDC
)
