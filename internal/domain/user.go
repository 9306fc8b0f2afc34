package domain

import "github.com/shopspring/decimal"

// PoolShares is a user's BPT balance in one pool. Holder-count transitions are
// derived from this record crossing zero in either direction.
type PoolShares struct {
	PoolID  string
	User    string
	Balance decimal.Decimal
}

// LifetimeUserMetric accumulates a user's protocol-wide USD activity.
type LifetimeUserMetric struct {
	User             string
	SwapVolume       decimal.Decimal
	Invested         decimal.Decimal
	Withdrawn        decimal.Decimal
	ClaimedEmissions decimal.Decimal
}

// DailyUserMetric is the per-(user, day) activity bucket.
type DailyUserMetric struct {
	User       string
	Day        int64
	StartTime  int64
	SwapVolume decimal.Decimal
	Invested   decimal.Decimal
	Withdrawn  decimal.Decimal
}

// DailyUserPoolMetric is the per-(user, pool, day) activity bucket.
type DailyUserPoolMetric struct {
	User       string
	PoolID     string
	Day        int64
	StartTime  int64
	SwapVolume decimal.Decimal
	Invested   decimal.Decimal
	Withdrawn  decimal.Decimal
}
