package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

func TestMetricStore_DailyPoolMetricKeying(t *testing.T) {
	store := NewMetricStore()
	ctx := context.Background()

	if err := store.SaveDailyPoolMetric(ctx, &domain.DailyPoolMetric{
		PoolID:        "p1",
		Day:           19000,
		SwapVolume24h: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("SaveDailyPoolMetric failed: %v", err)
	}

	got, err := store.LoadDailyPoolMetric(ctx, "p1", 19000)
	if err != nil {
		t.Fatalf("LoadDailyPoolMetric failed: %v", err)
	}
	if !got.SwapVolume24h.Equal(decimal.NewFromInt(10)) {
		t.Errorf("SwapVolume24h mismatch: got %s", got.SwapVolume24h)
	}

	// Neighbouring day is a distinct bucket.
	if _, err := store.LoadDailyPoolMetric(ctx, "p1", 18999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for day 18999, got %v", err)
	}
	// Same day for another pool is a distinct bucket.
	if _, err := store.LoadDailyPoolMetric(ctx, "p2", 19000); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for pool p2, got %v", err)
	}
}

func TestMetricStore_VaultSingleton(t *testing.T) {
	store := NewMetricStore()
	ctx := context.Background()

	if _, err := store.LoadLifetimeVaultMetric(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound before first save, got %v", err)
	}

	if err := store.SaveLifetimeVaultMetric(ctx, &domain.LifetimeVaultMetric{
		SwapCount: 7,
	}); err != nil {
		t.Fatalf("SaveLifetimeVaultMetric failed: %v", err)
	}

	got, err := store.LoadLifetimeVaultMetric(ctx)
	if err != nil {
		t.Fatalf("LoadLifetimeVaultMetric failed: %v", err)
	}
	if got.SwapCount != 7 {
		t.Errorf("SwapCount mismatch: got %d, want 7", got.SwapCount)
	}
}
