package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the state summary rendered after a replay run.
type Report struct {
	GeneratedAt time.Time
	PoolCount   int

	Vault VaultSummary

	// Per-pool lifetime rows, sorted by pool id.
	Pools []PoolMetricRow
}

// VaultSummary carries the protocol-wide lifetime totals. Present is false
// when no liquidity has ever been committed.
type VaultSummary struct {
	Present         bool
	TotalLiquidity  decimal.Decimal
	TotalSwapVolume decimal.Decimal
	TotalSwapFee    decimal.Decimal
	SwapCount       int64
}

// PoolMetricRow is one pool's lifetime metrics table row.
type PoolMetricRow struct {
	PoolID           string
	Type             string
	TotalLiquidity   decimal.Decimal
	DilutedLiquidity decimal.Decimal
	TotalShares      decimal.Decimal
	TotalSwapVolume  decimal.Decimal
	TotalSwapFee     decimal.Decimal
	SwapCount        int64
	HoldersCount     int64
}
