package storage

import (
	"context"

	"vault-analytics-lab/internal/domain"
)

// Every Load returns ErrNotFound when the entity does not exist; every Save
// upserts (last-write-wins). The engine processes one event at a time, so
// stores need no cross-entity transactions.

// PoolStore provides access to pools, pool tokens and swap configs.
type PoolStore interface {
	// LoadPool retrieves a pool by its vault-scoped id.
	LoadPool(ctx context.Context, poolID string) (*domain.Pool, error)

	// LoadPoolByAddress retrieves a pool by its contract (BPT) address.
	LoadPoolByAddress(ctx context.Context, address string) (*domain.Pool, error)

	// SavePool upserts a pool.
	SavePool(ctx context.Context, p *domain.Pool) error

	// ListPools retrieves every registered pool ordered by id.
	ListPools(ctx context.Context) ([]*domain.Pool, error)

	// IsPoolAddress reports whether the address is any pool's share token.
	IsPoolAddress(ctx context.Context, address string) (bool, error)

	// LoadPoolToken retrieves one (pool, token) balance record.
	LoadPoolToken(ctx context.Context, poolID, token string) (*domain.PoolToken, error)

	// SavePoolToken upserts a pool token.
	SavePoolToken(ctx context.Context, pt *domain.PoolToken) error

	// LoadSwapConfig retrieves a pool's trading parameters.
	LoadSwapConfig(ctx context.Context, poolID string) (*domain.SwapConfig, error)

	// SaveSwapConfig upserts a swap config.
	SaveSwapConfig(ctx context.Context, c *domain.SwapConfig) error
}

// TokenStore provides access to token metadata and vault-wide token balances.
type TokenStore interface {
	// LoadToken retrieves token metadata by address.
	LoadToken(ctx context.Context, address string) (*domain.Token, error)

	// SaveToken upserts token metadata.
	SaveToken(ctx context.Context, t *domain.Token) error

	// LoadVaultToken retrieves a vault-wide token balance record.
	LoadVaultToken(ctx context.Context, address string) (*domain.VaultToken, error)

	// SaveVaultToken upserts a vault token.
	SaveVaultToken(ctx context.Context, vt *domain.VaultToken) error
}

// PriceStore provides access to the token-price cache. TokenPrice records are
// directional: (token, pricingAsset) and (pricingAsset, token) are distinct.
type PriceStore interface {
	// LoadTokenPrice retrieves the last observed rate of token in pricingAsset.
	LoadTokenPrice(ctx context.Context, token, pricingAsset string) (*domain.TokenPrice, error)

	// SaveTokenPrice upserts a token price.
	SaveTokenPrice(ctx context.Context, tp *domain.TokenPrice) error

	// LoadLatestTokenPrice retrieves the per-token USD price singleton.
	LoadLatestTokenPrice(ctx context.Context, token string) (*domain.LatestTokenPrice, error)

	// SaveLatestTokenPrice upserts the singleton.
	SaveLatestTokenPrice(ctx context.Context, lp *domain.LatestTokenPrice) error

	// LoadHourlyTokenPrice retrieves a (token, hour) price summary.
	LoadHourlyTokenPrice(ctx context.Context, token string, hour int64) (*domain.HourlyTokenPrice, error)

	// SaveHourlyTokenPrice upserts an hourly summary.
	SaveHourlyTokenPrice(ctx context.Context, hp *domain.HourlyTokenPrice) error
}

// MetricStore provides access to lifetime and daily metric records.
type MetricStore interface {
	LoadLifetimePoolMetric(ctx context.Context, poolID string) (*domain.LifetimePoolMetric, error)
	SaveLifetimePoolMetric(ctx context.Context, m *domain.LifetimePoolMetric) error

	// LoadDailyPoolMetric retrieves the (pool, day) bucket.
	LoadDailyPoolMetric(ctx context.Context, poolID string, day int64) (*domain.DailyPoolMetric, error)
	SaveDailyPoolMetric(ctx context.Context, m *domain.DailyPoolMetric) error

	LoadDailyPoolToken(ctx context.Context, poolID, token string, day int64) (*domain.DailyPoolToken, error)
	SaveDailyPoolToken(ctx context.Context, m *domain.DailyPoolToken) error

	// LoadLifetimeVaultMetric retrieves the protocol-wide singleton.
	LoadLifetimeVaultMetric(ctx context.Context) (*domain.LifetimeVaultMetric, error)
	SaveLifetimeVaultMetric(ctx context.Context, m *domain.LifetimeVaultMetric) error

	LoadDailyVaultMetric(ctx context.Context, day int64) (*domain.DailyVaultMetric, error)
	SaveDailyVaultMetric(ctx context.Context, m *domain.DailyVaultMetric) error

	LoadDailyVaultToken(ctx context.Context, token string, day int64) (*domain.DailyVaultToken, error)
	SaveDailyVaultToken(ctx context.Context, m *domain.DailyVaultToken) error
}

// UserStore provides access to share balances and user metrics.
type UserStore interface {
	LoadPoolShares(ctx context.Context, poolID, user string) (*domain.PoolShares, error)
	SavePoolShares(ctx context.Context, s *domain.PoolShares) error

	LoadLifetimeUserMetric(ctx context.Context, user string) (*domain.LifetimeUserMetric, error)
	SaveLifetimeUserMetric(ctx context.Context, m *domain.LifetimeUserMetric) error

	LoadDailyUserMetric(ctx context.Context, user string, day int64) (*domain.DailyUserMetric, error)
	SaveDailyUserMetric(ctx context.Context, m *domain.DailyUserMetric) error

	LoadDailyUserPoolMetric(ctx context.Context, user, poolID string, day int64) (*domain.DailyUserPoolMetric, error)
	SaveDailyUserPoolMetric(ctx context.Context, m *domain.DailyUserPoolMetric) error
}

// UpdateStore provides access to gradual weight/amp update windows. One window
// per pool; a newly scheduled update replaces the previous one.
type UpdateStore interface {
	LoadGradualWeightUpdate(ctx context.Context, poolID string) (*domain.GradualWeightUpdate, error)
	SaveGradualWeightUpdate(ctx context.Context, u *domain.GradualWeightUpdate) error

	LoadGradualAmpUpdate(ctx context.Context, poolID string) (*domain.GradualAmpUpdate, error)
	SaveGradualAmpUpdate(ctx context.Context, u *domain.GradualAmpUpdate) error
}

// TradeStore records classified swap/join/exit events for downstream queries.
type TradeStore interface {
	SaveSwapRecord(ctx context.Context, r *domain.SwapRecord) error
	SaveJoinRecord(ctx context.Context, r *domain.JoinRecord) error
	SaveExitRecord(ctx context.Context, r *domain.ExitRecord) error

	// SwapRecordsByPool retrieves swaps for a pool ordered by (timestamp, logIndex).
	SwapRecordsByPool(ctx context.Context, poolID string) ([]*domain.SwapRecord, error)

	// JoinRecordsByPool retrieves joins for a pool ordered by (timestamp, logIndex).
	JoinRecordsByPool(ctx context.Context, poolID string) ([]*domain.JoinRecord, error)

	// ExitRecordsByPool retrieves exits for a pool ordered by (timestamp, logIndex).
	ExitRecordsByPool(ctx context.Context, poolID string) ([]*domain.ExitRecord, error)
}

// Store bundles every entity store for wiring.
type Store interface {
	PoolStore
	TokenStore
	PriceStore
	MetricStore
	UserStore
	UpdateStore
	TradeStore
}
