package types

import "fmt"

// USDCDecimals is the number of fractional digits of the payment token.
const USDCDecimals = 6

const usdcUnit = 1_000_000

// Amount is a token quantity in the smallest token unit.
// All arithmetic is integer-only; there is no floating point anywhere.
//
// Examples:
//   - USDC(1_000_000) = 1.000000 USDC
//   - WholeUSDC(5)    = 5.000000 USDC
type Amount int64

// USDC creates an Amount from raw token units.
func USDC(units int64) Amount { return Amount(units) }

// WholeUSDC creates an Amount from whole tokens.
func WholeUSDC(tokens int64) Amount { return Amount(tokens * usdcUnit) }

// Add returns a + other.
func (a Amount) Add(other Amount) Amount { return a + other }

// Sub returns a - other.
func (a Amount) Sub(other Amount) Amount { return a - other }

// Mul returns a multiplied by qty.
func (a Amount) Mul(qty int64) Amount { return a * Amount(qty) }

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Units returns the raw token units.
func (a Amount) Units() int64 { return int64(a) }

// Float returns the amount in whole tokens. Use it for metrics only.
func (a Amount) Float() float64 { return float64(a) / usdcUnit }

// String formats the amount with the token's six decimals, e.g. "1.500000 USDC".
func (a Amount) String() string {
	units := int64(a)
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%06d USDC", sign, units/usdcUnit, units%usdcUnit)
}
