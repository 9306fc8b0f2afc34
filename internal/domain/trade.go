package domain

import "github.com/shopspring/decimal"

// SwapRecord is the persisted record of one genuine swap, keyed by
// (txHash, logIndex).
type SwapRecord struct {
	TxHash    string
	LogIndex  uint
	PoolID    string
	TokenIn   string
	TokenOut  string
	AmountIn  decimal.Decimal
	AmountOut decimal.Decimal
	ValueUSD  decimal.Decimal
	User      string
	Timestamp int64
}

// JoinRecord is the persisted record of a liquidity join, including phantom
// swaps reclassified as joins. Amounts align with the pool's token list.
type JoinRecord struct {
	TxHash    string
	LogIndex  uint
	PoolID    string
	Amounts   []decimal.Decimal
	ValueUSD  decimal.Decimal
	User      string
	Timestamp int64
}

// ExitRecord is the persisted record of a liquidity exit.
type ExitRecord struct {
	TxHash    string
	LogIndex  uint
	PoolID    string
	Amounts   []decimal.Decimal
	ValueUSD  decimal.Decimal
	User      string
	Timestamp int64
}
