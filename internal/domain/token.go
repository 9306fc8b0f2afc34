package domain

import "github.com/shopspring/decimal"

// ZeroAddress marks mints and burns on share-transfer events.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// BPTDecimals is the fixed decimal count of every pool share token.
const BPTDecimals = 18

// Token holds per-token metadata. Decimals must never change after the token
// is first observed.
type Token struct {
	Address  string
	Decimals int32
	Symbol   string
	Name     string
}

// VaultToken tracks a token's aggregate balance across all pools.
type VaultToken struct {
	Address   string
	Balance   decimal.Decimal
	SwapCount int64
}
