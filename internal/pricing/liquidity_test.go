package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage/memory"
)

func seedTwoTokenPool(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:             "0xpool1",
		Address:        "0xbpt1",
		Type:           domain.PoolTypeWeighted,
		TokenAddresses: []string{wftmAddr, beetsAddr},
	}))
	require.NoError(t, store.SavePoolToken(ctx, &domain.PoolToken{
		PoolID:  "0xpool1",
		Address: wftmAddr,
		Balance: decimal.NewFromInt(1000),
	}))
	require.NoError(t, store.SavePoolToken(ctx, &domain.PoolToken{
		PoolID:  "0xpool1",
		Address: beetsAddr,
		Balance: decimal.NewFromInt(4000),
	}))
	require.NoError(t, store.SaveLifetimePoolMetric(ctx, &domain.LifetimePoolMetric{
		PoolID:      "0xpool1",
		TotalShares: decimal.NewFromInt(500),
	}))
}

func TestUpdatePoolLiquidity(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedTwoTokenPool(t, store)

	// BEETS trades at 0.25 WFTM, WFTM at 0.5 USDC.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        beetsAddr,
		PricingAsset: wftmAddr,
		Price:        mustDec(t, "0.25"),
	}))
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wftmAddr,
		PricingAsset: usdcAddr,
		Price:        mustDec(t, "0.5"),
	}))

	assets := testAssets()
	resolver := NewResolver(assets, store, store, 4)
	valuator := NewValuator(store, assets, resolver, zap.NewNop())

	block := domain.Block{Number: 100, Timestamp: 1_700_000_000}
	ok, err := valuator.UpdatePoolLiquidity(ctx, "0xpool1", wftmAddr, block)
	require.NoError(t, err)
	require.True(t, ok)

	// Pool value: 1000 WFTM + 4000*0.25 WFTM = 2000 WFTM = 1000 USD.
	lifetime, err := store.LoadLifetimePoolMetric(ctx, "0xpool1")
	require.NoError(t, err)
	require.True(t, lifetime.TotalLiquidity.Equal(decimal.NewFromInt(1000)))
	require.True(t, lifetime.DilutedLiquidity.Equal(decimal.NewFromInt(1000)))

	daily, err := store.LoadDailyPoolMetric(ctx, "0xpool1", domain.DayIndex(block.Timestamp))
	require.NoError(t, err)
	require.True(t, daily.TotalLiquidity.Equal(decimal.NewFromInt(1000)))
	require.True(t, daily.LiquidityChange24h.Equal(decimal.NewFromInt(1000)))

	// Share token: 2000 WFTM / 500 shares, 1000 USD / 500 shares.
	sharePrice, err := store.LoadTokenPrice(ctx, "0xbpt1", wftmAddr)
	require.NoError(t, err)
	require.True(t, sharePrice.Price.Equal(decimal.NewFromInt(4)))
	require.True(t, sharePrice.PriceUSD.Equal(decimal.NewFromInt(2)))

	vault, err := store.LoadLifetimeVaultMetric(ctx)
	require.NoError(t, err)
	require.True(t, vault.TotalLiquidity.Equal(decimal.NewFromInt(1000)))
}

func TestUpdatePoolLiquidity_NoUSDRouteRejected(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedTwoTokenPool(t, store)

	// BEETS has a WFTM rate but WFTM has no USD route: the pool has positive
	// value that resolves to zero USD, so nothing may be committed.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        beetsAddr,
		PricingAsset: wftmAddr,
		Price:        mustDec(t, "0.25"),
	}))

	assets := testAssets()
	resolver := NewResolver(assets, store, store, 4)
	valuator := NewValuator(store, assets, resolver, zap.NewNop())

	block := domain.Block{Number: 100, Timestamp: 1_700_000_000}
	ok, err := valuator.UpdatePoolLiquidity(ctx, "0xpool1", wftmAddr, block)
	require.NoError(t, err)
	require.False(t, ok)

	lifetime, err := store.LoadLifetimePoolMetric(ctx, "0xpool1")
	require.NoError(t, err)
	require.True(t, lifetime.TotalLiquidity.IsZero())

	_, err = store.LoadLifetimeVaultMetric(ctx)
	require.Error(t, err)
}

func TestUpdatePoolLiquidity_SkipsOwnShareToken(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Phantom pool holding its own pre-minted share token.
	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:             "0xphantom",
		Address:        "0xbpt2",
		Type:           domain.PoolTypeStablePhantom,
		PhantomPool:    true,
		TokenAddresses: []string{"0xbpt2", usdcAddr, usdtAddr},
	}))
	require.NoError(t, store.SavePoolToken(ctx, &domain.PoolToken{
		PoolID:  "0xphantom",
		Address: "0xbpt2",
		Balance: mustDec(t, "5192296858534827.628530496329220095"),
	}))
	require.NoError(t, store.SavePoolToken(ctx, &domain.PoolToken{
		PoolID:  "0xphantom",
		Address: usdcAddr,
		Balance: decimal.NewFromInt(600),
	}))
	require.NoError(t, store.SavePoolToken(ctx, &domain.PoolToken{
		PoolID:  "0xphantom",
		Address: usdtAddr,
		Balance: decimal.NewFromInt(400),
	}))
	require.NoError(t, store.SaveLifetimePoolMetric(ctx, &domain.LifetimePoolMetric{
		PoolID: "0xphantom",
	}))
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        usdtAddr,
		PricingAsset: usdcAddr,
		Price:        decimal.NewFromInt(1),
	}))

	assets := testAssets()
	resolver := NewResolver(assets, store, store, 4)
	valuator := NewValuator(store, assets, resolver, zap.NewNop())

	block := domain.Block{Number: 7, Timestamp: 1_700_000_000}
	ok, err := valuator.UpdatePoolLiquidity(ctx, "0xphantom", usdcAddr, block)
	require.NoError(t, err)
	require.True(t, ok)

	// The pre-minted supply must not inflate liquidity.
	lifetime, err := store.LoadLifetimePoolMetric(ctx, "0xphantom")
	require.NoError(t, err)
	require.True(t, lifetime.TotalLiquidity.Equal(decimal.NewFromInt(1000)))
}
