package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

func TestStore_PoolRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	_, err := store.LoadPool(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	p := &domain.Pool{
		ID:             "0xpool100",
		Address:        "0xbpt1",
		Type:           domain.PoolTypeWeighted,
		TokenAddresses: []string{"0xaaa", "0xbbb"},
		Amp:            decimal.NewFromInt(0),
		Owner:          "0xowner",
	}
	require.NoError(t, store.SavePool(ctx, p))

	got, err := store.LoadPool(ctx, "0xpool100")
	require.NoError(t, err)
	require.Equal(t, p.Address, got.Address)
	require.Equal(t, p.Type, got.Type)
	require.Equal(t, p.TokenAddresses, got.TokenAddresses)

	byAddr, err := store.LoadPoolByAddress(ctx, "0xbpt1")
	require.NoError(t, err)
	require.Equal(t, p.ID, byAddr.ID)

	isPool, err := store.IsPoolAddress(ctx, "0xbpt1")
	require.NoError(t, err)
	require.True(t, isPool)

	isPool, err = store.IsPoolAddress(ctx, "0xaaa")
	require.NoError(t, err)
	require.False(t, isPool)
}

func TestStore_UpsertIsLastWriteWins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	pt := &domain.PoolToken{
		PoolID:    "0xpool100",
		Address:   "0xaaa",
		Balance:   decimal.NewFromInt(100),
		PriceRate: decimal.NewFromInt(1),
	}
	require.NoError(t, store.SavePoolToken(ctx, pt))

	pt.Balance = decimal.NewFromInt(250)
	pt.SwapCount = 7
	require.NoError(t, store.SavePoolToken(ctx, pt))

	got, err := store.LoadPoolToken(ctx, "0xpool100", "0xaaa")
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(decimal.NewFromInt(250)))
	require.Equal(t, int64(7), got.SwapCount)
}

func TestStore_TokenPriceIsDirectional(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	ab := &domain.TokenPrice{
		Token:        "0xaaa",
		PricingAsset: "0xbbb",
		Price:        decimal.NewFromInt(4),
		PriceUSD:     decimal.NewFromInt(2),
	}
	require.NoError(t, store.SaveTokenPrice(ctx, ab))

	got, err := store.LoadTokenPrice(ctx, "0xaaa", "0xbbb")
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.NewFromInt(4)))

	// Reverse direction is a distinct record.
	_, err = store.LoadTokenPrice(ctx, "0xbbb", "0xaaa")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_VaultMetricSingleton(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	_, err := store.LoadLifetimeVaultMetric(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	m := &domain.LifetimeVaultMetric{
		TotalLiquidity: decimal.NewFromInt(1000),
		SwapCount:      3,
	}
	require.NoError(t, store.SaveLifetimeVaultMetric(ctx, m))

	m.SwapCount = 4
	require.NoError(t, store.SaveLifetimeVaultMetric(ctx, m))

	got, err := store.LoadLifetimeVaultMetric(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(4), got.SwapCount)
	require.True(t, got.TotalLiquidity.Equal(decimal.NewFromInt(1000)))
}

func TestStore_TradeRecordsOrderedByLedgerPosition(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	records := []*domain.SwapRecord{
		{TxHash: "0xb", LogIndex: 0, PoolID: "0xpool100", Timestamp: 200, ValueUSD: decimal.NewFromInt(2)},
		{TxHash: "0xa", LogIndex: 3, PoolID: "0xpool100", Timestamp: 100, ValueUSD: decimal.NewFromInt(1)},
		{TxHash: "0xa", LogIndex: 1, PoolID: "0xpool100", Timestamp: 100, ValueUSD: decimal.NewFromInt(3)},
		{TxHash: "0xc", LogIndex: 0, PoolID: "0xother", Timestamp: 50, ValueUSD: decimal.NewFromInt(9)},
	}
	for _, r := range records {
		require.NoError(t, store.SaveSwapRecord(ctx, r))
	}

	got, err := store.SwapRecordsByPool(ctx, "0xpool100")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, uint(1), got[0].LogIndex)
	require.Equal(t, uint(3), got[1].LogIndex)
	require.Equal(t, "0xb", got[2].TxHash)
}

func TestStore_DailyBucketsKeyedByDay(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStore(pool)
	ctx := context.Background()

	day := int64(19000)
	m := &domain.DailyPoolMetric{
		PoolID:        "0xpool100",
		Day:           day,
		StartTime:     day * 86400,
		SwapVolume24h: decimal.NewFromInt(42),
	}
	require.NoError(t, store.SaveDailyPoolMetric(ctx, m))

	got, err := store.LoadDailyPoolMetric(ctx, "0xpool100", day)
	require.NoError(t, err)
	require.True(t, got.SwapVolume24h.Equal(decimal.NewFromInt(42)))

	_, err = store.LoadDailyPoolMetric(ctx, "0xpool100", day+1)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
