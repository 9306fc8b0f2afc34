package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// GetOrCreateTokenPrice loads the directional (token, pricingAsset) record or
// creates a zero-valued one stamped with the block.
func GetOrCreateTokenPrice(ctx context.Context, store storage.PriceStore, token, pricingAsset string, block domain.Block) (*domain.TokenPrice, error) {
	tp, err := store.LoadTokenPrice(ctx, token, pricingAsset)
	if err == nil {
		return tp, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load token price: %w", err)
	}
	tp = &domain.TokenPrice{
		Token:        token,
		PricingAsset: pricingAsset,
		Timestamp:    block.Timestamp,
		Block:        block.Number,
	}
	if err := store.SaveTokenPrice(ctx, tp); err != nil {
		return nil, fmt.Errorf("create token price: %w", err)
	}
	return tp, nil
}

// GetOrCreateLatestTokenPrice loads or creates the per-token USD singleton.
func GetOrCreateLatestTokenPrice(ctx context.Context, store storage.PriceStore, token string) (*domain.LatestTokenPrice, error) {
	lp, err := store.LoadLatestTokenPrice(ctx, token)
	if err == nil {
		return lp, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load latest token price: %w", err)
	}
	lp = &domain.LatestTokenPrice{Token: token}
	if err := store.SaveLatestTokenPrice(ctx, lp); err != nil {
		return nil, fmt.Errorf("create latest token price: %w", err)
	}
	return lp, nil
}

// RecordHourlyPrice folds a USD price observation into the (token, hour)
// summary: running mean over data points plus the closing price.
func RecordHourlyPrice(ctx context.Context, store storage.PriceStore, token string, priceUSD decimal.Decimal, block domain.Block) error {
	hour := domain.HourIndex(block.Timestamp)
	hp, err := store.LoadHourlyTokenPrice(ctx, token, hour)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("load hourly token price: %w", err)
		}
		hp = &domain.HourlyTokenPrice{
			Token:     token,
			Hour:      hour,
			StartTime: hour * 3600,
		}
	}
	hp.EndPriceUSD = priceUSD
	hp.AvgPriceUSD = hp.AvgPriceUSD.Mul(hp.DataPoints).Add(priceUSD).Div(hp.DataPoints.Add(scale.One))
	hp.DataPoints = hp.DataPoints.Add(scale.One)
	return store.SaveHourlyTokenPrice(ctx, hp)
}
