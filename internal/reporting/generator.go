package reporting

import (
	"context"
	"errors"
	"time"

	"vault-analytics-lab/internal/storage"
)

// Generator produces reports from stored metrics.
type Generator struct {
	pools   storage.PoolStore
	metrics storage.MetricStore
	now     func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(pools storage.PoolStore, metrics storage.MetricStore) *Generator {
	return &Generator{
		pools:   pools,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles the lifetime metrics of every registered pool plus the
// protocol-wide totals.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	pools, err := g.pools.ListPools(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		PoolCount:   len(pools),
	}

	for _, p := range pools {
		m, err := g.metrics.LoadLifetimePoolMetric(ctx, p.ID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		report.Pools = append(report.Pools, PoolMetricRow{
			PoolID:           p.ID,
			Type:             string(p.Type),
			TotalLiquidity:   m.TotalLiquidity,
			DilutedLiquidity: m.DilutedLiquidity,
			TotalShares:      m.TotalShares,
			TotalSwapVolume:  m.TotalSwapVolume,
			TotalSwapFee:     m.TotalSwapFee,
			SwapCount:        m.SwapCount,
			HoldersCount:     m.HoldersCount,
		})
	}

	vault, err := g.metrics.LoadLifetimeVaultMetric(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// No liquidity committed yet.
	case err != nil:
		return nil, err
	default:
		report.Vault = VaultSummary{
			Present:         true,
			TotalLiquidity:  vault.TotalLiquidity,
			TotalSwapVolume: vault.TotalSwapVolume,
			TotalSwapFee:    vault.TotalSwapFee,
			SwapCount:       vault.SwapCount,
		}
	}

	return report, nil
}
