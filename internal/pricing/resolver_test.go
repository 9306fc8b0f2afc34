package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/config"
	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage/memory"
)

const (
	usdcAddr   = "0x04068da6c83afcfa0e13ba15a6696662335d5b75"
	usdtAddr   = "0x049d68029688eabf473097a2fc38ef61633a3c7a"
	wftmAddr   = "0x21be370d5312f44cb42ce377bc9b8a0cef1a4c83"
	wethAddr   = "0x74b23882a30290451a17c44f4f05243b6b58c76d"
	linearAddr = "0x5ddb92a5340fd0ead3987d3661afcd6104c3b757"
	beetsAddr  = "0xf24bcf4d1e507740041c9cfd2dddb29585adce1e"
)

func testAssets() *Assets {
	return NewAssets(config.Config{
		StableAssets:       []string{usdcAddr, usdtAddr},
		PricingAssets:      []string{wftmAddr, wethAddr},
		NestedLinearAssets: []string{linearAddr},
	})
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestValueInUSD_StableIdentity(t *testing.T) {
	store := memory.NewStore()
	r := NewResolver(testAssets(), store, store, 4)

	got, err := r.ValueInUSD(context.Background(), mustDec(t, "123.45"), usdcAddr)
	require.NoError(t, err)
	require.True(t, got.Equal(mustDec(t, "123.45")))
}

func TestValueInUSD_StableFallbackOrder(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Only the second stable has an observed rate.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wftmAddr,
		PricingAsset: usdtAddr,
		Price:        mustDec(t, "0.45"),
	}))

	r := NewResolver(testAssets(), store, store, 4)
	got, err := r.ValueInUSD(ctx, decimal.NewFromInt(10), wftmAddr)
	require.NoError(t, err)
	require.True(t, got.Equal(mustDec(t, "4.5")))

	// Once the first stable has a rate, it wins.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wftmAddr,
		PricingAsset: usdcAddr,
		Price:        mustDec(t, "0.5"),
	}))
	got, err = r.ValueInUSD(ctx, decimal.NewFromInt(10), wftmAddr)
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(5)))
}

func TestValueInUSD_NoRouteIsZero(t *testing.T) {
	store := memory.NewStore()
	r := NewResolver(testAssets(), store, store, 4)

	got, err := r.ValueInUSD(context.Background(), decimal.NewFromInt(100), beetsAddr)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestValueInUSD_NestedLinear(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Linear pool wrapping WETH: share token priced through the main token.
	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:             "0xlinear",
		Address:        linearAddr,
		Type:           domain.PoolTypeLinear,
		TokenAddresses: []string{linearAddr, wethAddr},
		MainIndex:      1,
	}))
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        linearAddr,
		PricingAsset: wethAddr,
		Price:        mustDec(t, "1.02"),
	}))
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wethAddr,
		PricingAsset: usdcAddr,
		Price:        decimal.NewFromInt(2000),
	}))

	r := NewResolver(testAssets(), store, store, 4)
	got, err := r.ValueInUSD(ctx, decimal.NewFromInt(10), linearAddr)
	require.NoError(t, err)
	// 10 * 1.02 * 2000
	require.True(t, got.Equal(decimal.NewFromInt(20400)))
}

func TestValueInUSD_NestedLinearWithoutRate(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:             "0xlinear",
		Address:        linearAddr,
		Type:           domain.PoolTypeLinear,
		TokenAddresses: []string{linearAddr, wethAddr},
		MainIndex:      1,
	}))

	r := NewResolver(testAssets(), store, store, 4)
	got, err := r.ValueInUSD(ctx, decimal.NewFromInt(10), linearAddr)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestSwapValueInUSD_StableLegPreference(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := NewResolver(testAssets(), store, store, 4)

	// Stable out leg taken at face value even when the in leg has a rate.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wftmAddr,
		PricingAsset: usdcAddr,
		Price:        mustDec(t, "0.5"),
	}))
	got, err := r.SwapValueInUSD(ctx, wftmAddr, decimal.NewFromInt(100), usdcAddr, decimal.NewFromInt(49))
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(49)))

	// Stable in leg when the out leg is not stable.
	got, err = r.SwapValueInUSD(ctx, usdtAddr, decimal.NewFromInt(50), wftmAddr, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(50)))
}

func TestSwapValueInUSD_Averaging(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := NewResolver(testAssets(), store, store, 4)

	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        wftmAddr,
		PricingAsset: usdcAddr,
		Price:        mustDec(t, "0.5"),
	}))

	// Only the in leg resolves: it counts in full.
	got, err := r.SwapValueInUSD(ctx, wftmAddr, decimal.NewFromInt(100), beetsAddr, decimal.NewFromInt(400))
	require.NoError(t, err)
	require.True(t, got.Equal(decimal.NewFromInt(50)))

	// Both legs resolve: average of the two.
	require.NoError(t, store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        beetsAddr,
		PricingAsset: usdcAddr,
		Price:        mustDec(t, "0.15"),
	}))
	got, err = r.SwapValueInUSD(ctx, wftmAddr, decimal.NewFromInt(100), beetsAddr, decimal.NewFromInt(400))
	require.NoError(t, err)
	// (50 + 60) / 2
	require.True(t, got.Equal(decimal.NewFromInt(55)))
}

func TestPreferentialPricingAsset(t *testing.T) {
	a := testAssets()

	require.Equal(t, usdcAddr, a.Preferential([]string{wftmAddr, usdcAddr}))
	require.Equal(t, wftmAddr, a.Preferential([]string{beetsAddr, wftmAddr}))
	require.Equal(t, "", a.Preferential([]string{beetsAddr, linearAddr}))
}
