package domain

import "github.com/shopspring/decimal"

// DayIndex buckets a unix timestamp into UTC days.
func DayIndex(timestamp int64) int64 { return timestamp / 86400 }

// HourIndex buckets a unix timestamp into hours.
func HourIndex(timestamp int64) int64 { return timestamp / 3600 }

// LifetimePoolMetric is the cumulative-since-creation view of a pool. Created
// together with the pool, mutated on every relevant event, never deleted.
type LifetimePoolMetric struct {
	PoolID            string
	TotalLiquidity    decimal.Decimal
	DilutedLiquidity  decimal.Decimal
	TotalShares       decimal.Decimal
	TotalSwapVolume   decimal.Decimal
	TotalSwapFee      decimal.Decimal
	SwapCount         int64
	HoldersCount      int64
	StartTime         int64
}

// DailyPoolMetric is the per-(pool, day) bucket. It carries both the running
// lifetime totals (copied at update time) and the 24h deltas for its own day.
// Change24h fields diff today's 24h counters against yesterday's bucket.
type DailyPoolMetric struct {
	PoolID              string
	Day                 int64
	StartTime           int64
	TotalShares         decimal.Decimal
	TotalLiquidity      decimal.Decimal
	DilutedLiquidity    decimal.Decimal
	LiquidityChange24h  decimal.Decimal
	SwapVolume24h       decimal.Decimal
	SwapVolumeChange24h decimal.Decimal
	TotalSwapVolume     decimal.Decimal
	SwapFee24h          decimal.Decimal
	SwapFeeChange24h    decimal.Decimal
	TotalSwapFee        decimal.Decimal
	SwapCount24h        int64
	SwapCountChange24h  int64
	TotalSwapCount      int64
}

// DailyPoolToken mirrors a pool token's balance into the day bucket.
type DailyPoolToken struct {
	PoolID           string
	Token            string
	Day              int64
	StartTime        int64
	TotalBalance     decimal.Decimal
	BalanceChange24h decimal.Decimal
}

// LifetimeVaultMetric is the protocol-wide singleton mirror of the lifetime
// pool metrics, aggregated across all pools.
type LifetimeVaultMetric struct {
	TotalLiquidity  decimal.Decimal
	TotalSwapVolume decimal.Decimal
	TotalSwapFee    decimal.Decimal
	SwapCount       int64
	StartTime       int64
}

// DailyVaultMetric is the protocol-wide day bucket.
type DailyVaultMetric struct {
	Day                 int64
	StartTime           int64
	TotalLiquidity      decimal.Decimal
	LiquidityChange24h  decimal.Decimal
	SwapVolume24h       decimal.Decimal
	SwapVolumeChange24h decimal.Decimal
	TotalSwapVolume     decimal.Decimal
	SwapFee24h          decimal.Decimal
	SwapFeeChange24h    decimal.Decimal
	TotalSwapFee        decimal.Decimal
	SwapCount24h        int64
	SwapCountChange24h  int64
	TotalSwapCount      int64
}

// DailyVaultToken mirrors a vault token's balance into the day bucket.
type DailyVaultToken struct {
	Token            string
	Day              int64
	StartTime        int64
	TotalBalance     decimal.Decimal
	BalanceChange24h decimal.Decimal
}
