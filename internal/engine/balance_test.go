package engine

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/domain"
)

// Deltas are raw decimal strings: 18-decimal token amounts overflow int64.
func balanceEvent(block domain.Block, logIndex uint, deltas ...string) *domain.Event {
	wrapped := make([]domain.BigInt, len(deltas))
	for i, d := range deltas {
		wrapped[i] = domain.MustBigInt(d)
	}
	return &domain.Event{
		Kind:     domain.EventBalanceChanged,
		PoolID:   "0xpool1",
		Block:    block,
		TxHash:   "0xjoin",
		LogIndex: logIndex,
		BalanceChanged: &domain.BalanceChangedParams{
			LiquidityProvider: aliceAddr,
			Deltas:            wrapped,
		},
	}
}

func TestBalanceChanged_Join(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	registerWeightedPool(t, e, domain.Block{Number: 1, Timestamp: 86_400_000})

	block := domain.Block{Number: 2, Timestamp: 86_400_100}
	// 10 WFTM (18 decimals) and 20 USDC (6 decimals) in.
	require.NoError(t, e.Process(ctx, balanceEvent(block, 1, "10000000000000000000", "20000000")))

	wftm, err := store.LoadPoolToken(ctx, "0xpool1", wftmAddr)
	require.NoError(t, err)
	require.True(t, wftm.Balance.Equal(decimal.NewFromInt(10)))
	usdc, err := store.LoadPoolToken(ctx, "0xpool1", usdcAddr)
	require.NoError(t, err)
	require.True(t, usdc.Balance.Equal(decimal.NewFromInt(20)))

	vt, err := store.LoadVaultToken(ctx, usdcAddr)
	require.NoError(t, err)
	require.True(t, vt.Balance.Equal(decimal.NewFromInt(20)))

	// Only the stable leg resolves to USD (no WFTM rate yet).
	joins, err := store.JoinRecordsByPool(ctx, "0xpool1")
	require.NoError(t, err)
	require.Len(t, joins, 1)
	require.True(t, joins[0].ValueUSD.Equal(decimal.NewFromInt(20)))

	dum, err := store.LoadDailyUserMetric(ctx, aliceAddr, domain.DayIndex(block.Timestamp))
	require.NoError(t, err)
	require.True(t, dum.Invested.Equal(decimal.NewFromInt(20)))

	lum, err := store.LoadLifetimeUserMetric(ctx, aliceAddr)
	require.NoError(t, err)
	require.True(t, lum.Invested.Equal(decimal.NewFromInt(20)))

	// USDC is a pricing asset with a trivial USD route, so the join already
	// values the pool.
	lifetime, err := store.LoadLifetimePoolMetric(ctx, "0xpool1")
	require.NoError(t, err)
	require.True(t, lifetime.TotalLiquidity.Equal(decimal.NewFromInt(20)), "got %s", lifetime.TotalLiquidity)
}

func TestBalanceChanged_Exit(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	registerWeightedPool(t, e, domain.Block{Number: 1, Timestamp: 86_400_000})

	require.NoError(t, e.Process(ctx, balanceEvent(domain.Block{Number: 2, Timestamp: 86_400_100}, 1,
		"10000000000000000000", "20000000")))

	// Withdraw half of each side: deltas are negative.
	block := domain.Block{Number: 3, Timestamp: 86_400_200}
	require.NoError(t, e.Process(ctx, balanceEvent(block, 1, "-5000000000000000000", "-10000000")))

	wftm, err := store.LoadPoolToken(ctx, "0xpool1", wftmAddr)
	require.NoError(t, err)
	require.True(t, wftm.Balance.Equal(decimal.NewFromInt(5)))
	usdc, err := store.LoadPoolToken(ctx, "0xpool1", usdcAddr)
	require.NoError(t, err)
	require.True(t, usdc.Balance.Equal(decimal.NewFromInt(10)))

	exits, err := store.ExitRecordsByPool(ctx, "0xpool1")
	require.NoError(t, err)
	require.Len(t, exits, 1)
	require.True(t, exits[0].Amounts[0].Equal(decimal.NewFromInt(5)))
	require.True(t, exits[0].ValueUSD.Equal(decimal.NewFromInt(10)))

	lum, err := store.LoadLifetimeUserMetric(ctx, aliceAddr)
	require.NoError(t, err)
	require.True(t, lum.Withdrawn.Equal(decimal.NewFromInt(10)))
}

func TestBalanceChanged_NoopAndArityMismatch(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	registerWeightedPool(t, e, domain.Block{Number: 1, Timestamp: 86_400_000})

	// Empty delta vector is filtered.
	require.NoError(t, e.Process(ctx, balanceEvent(domain.Block{Number: 2, Timestamp: 86_400_100}, 1)))
	// Wrong arity is dropped without partial application.
	require.NoError(t, e.Process(ctx, balanceEvent(domain.Block{Number: 3, Timestamp: 86_400_200}, 1, "5000000")))

	wftm, err := store.LoadPoolToken(ctx, "0xpool1", wftmAddr)
	require.NoError(t, err)
	require.True(t, wftm.Balance.IsZero())
	joins, err := store.JoinRecordsByPool(ctx, "0xpool1")
	require.NoError(t, err)
	require.Empty(t, joins)
}

func TestBalanceChanged_PhantomPremintCorrection(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	registerPhantomPool(t, e, domain.Block{Number: 1, Timestamp: 86_400_000})

	// Simulate the pre-mint observed via an earlier share transfer.
	lifetime, err := store.LoadLifetimePoolMetric(ctx, "0xpool1")
	require.NoError(t, err)
	lifetime.TotalShares = stablePhantomPremint
	require.NoError(t, store.SaveLifetimePoolMetric(ctx, lifetime))

	// First join: 100 BPT stays in the pool, 500 USDC and 500 USDT come in.
	block := domain.Block{Number: 2, Timestamp: 86_400_100}
	require.NoError(t, e.Process(ctx, balanceEvent(block, 1,
		"100000000000000000000", "500000000", "500000000")))

	lifetime, err = store.LoadLifetimePoolMetric(ctx, "0xpool1")
	require.NoError(t, err)
	want := stablePhantomPremint.Sub(decimal.NewFromInt(100))
	require.True(t, lifetime.TotalShares.Equal(want), "got %s", lifetime.TotalShares)
}
