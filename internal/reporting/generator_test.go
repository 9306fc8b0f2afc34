package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage/memory"
)

func TestGenerate_EmptyStore(t *testing.T) {
	store := memory.NewStore()
	gen := NewGenerator(store, store).WithClock(func() time.Time {
		return time.Unix(1700000000, 0).UTC()
	})

	report, err := gen.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.PoolCount)
	require.False(t, report.Vault.Present)

	md := RenderMarkdown(report)
	require.Contains(t, md, "No pools registered")
	require.Contains(t, md, "No liquidity committed")
}

func TestGenerate_PoolRows(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:      "0xpool2",
		Address: "0xbpt2",
		Type:    domain.PoolTypeStable,
	}))
	require.NoError(t, store.SavePool(ctx, &domain.Pool{
		ID:      "0xpool1",
		Address: "0xbpt1",
		Type:    domain.PoolTypeWeighted,
	}))
	require.NoError(t, store.SaveLifetimePoolMetric(ctx, &domain.LifetimePoolMetric{
		PoolID:          "0xpool1",
		TotalLiquidity:  decimal.NewFromInt(1000),
		TotalSwapVolume: decimal.NewFromInt(250),
		SwapCount:       12,
		HoldersCount:    3,
	}))
	require.NoError(t, store.SaveLifetimeVaultMetric(ctx, &domain.LifetimeVaultMetric{
		TotalLiquidity: decimal.NewFromInt(1000),
		SwapCount:      12,
	}))

	report, err := NewGenerator(store, store).Generate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.PoolCount)

	// 0xpool2 has no metric record and is skipped; rows keep id order.
	require.Len(t, report.Pools, 1)
	require.Equal(t, "0xpool1", report.Pools[0].PoolID)
	require.Equal(t, string(domain.PoolTypeWeighted), report.Pools[0].Type)
	require.True(t, report.Vault.Present)

	csv := RenderCSV(report.Pools)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], "0xpool1")
	require.Contains(t, lines[1], ",12,3")
}
