package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

func TestPriceStore_Directional(t *testing.T) {
	store := NewPriceStore()
	ctx := context.Background()

	err := store.SaveTokenPrice(ctx, &domain.TokenPrice{
		Token:        "0xaaa",
		PricingAsset: "0xbbb",
		Price:        decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("SaveTokenPrice failed: %v", err)
	}

	got, err := store.LoadTokenPrice(ctx, "0xaaa", "0xbbb")
	if err != nil {
		t.Fatalf("LoadTokenPrice failed: %v", err)
	}
	if !got.Price.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Price mismatch: got %s, want 2", got.Price)
	}

	// The reverse direction is a separate record.
	_, err = store.LoadTokenPrice(ctx, "0xbbb", "0xaaa")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for reverse direction, got %v", err)
	}
}

func TestPriceStore_LastWriteWins(t *testing.T) {
	store := NewPriceStore()
	ctx := context.Background()

	for _, p := range []int64{1, 3} {
		err := store.SaveTokenPrice(ctx, &domain.TokenPrice{
			Token:        "0xaaa",
			PricingAsset: "0xbbb",
			Price:        decimal.NewFromInt(p),
		})
		if err != nil {
			t.Fatalf("SaveTokenPrice failed: %v", err)
		}
	}

	got, err := store.LoadTokenPrice(ctx, "0xaaa", "0xbbb")
	if err != nil {
		t.Fatalf("LoadTokenPrice failed: %v", err)
	}
	if !got.Price.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Price mismatch: got %s, want 3", got.Price)
	}
}

func TestPriceStore_ReturnsCopies(t *testing.T) {
	store := NewPriceStore()
	ctx := context.Background()

	if err := store.SaveLatestTokenPrice(ctx, &domain.LatestTokenPrice{
		Token:    "0xaaa",
		PriceUSD: decimal.NewFromInt(5),
	}); err != nil {
		t.Fatalf("SaveLatestTokenPrice failed: %v", err)
	}

	first, err := store.LoadLatestTokenPrice(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("LoadLatestTokenPrice failed: %v", err)
	}
	first.PriceUSD = decimal.NewFromInt(99)

	second, err := store.LoadLatestTokenPrice(ctx, "0xaaa")
	if err != nil {
		t.Fatalf("LoadLatestTokenPrice failed: %v", err)
	}
	if !second.PriceUSD.Equal(decimal.NewFromInt(5)) {
		t.Errorf("store leaked a mutable reference: got %s, want 5", second.PriceUSD)
	}
}

func TestPriceStore_InvalidInput(t *testing.T) {
	store := NewPriceStore()
	ctx := context.Background()

	err := store.SaveTokenPrice(ctx, &domain.TokenPrice{Token: "", PricingAsset: "0xbbb"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
