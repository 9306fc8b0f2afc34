// Package scale converts raw fixed-point ledger integers into decimal amounts.
package scale

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Down divides a raw fixed-point integer by 10^decimals with full precision.
// Negative raw amounts scale to negative decimals. A nil raw amount scales to
// zero.
func Down(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// One is the decimal constant 1, shared across pricing formulas.
var One = decimal.NewFromInt(1)
