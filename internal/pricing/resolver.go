package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// Resolver converts amounts denominated in an arbitrary pricing asset into
// USD using the trade-observed price cache. Resolution never fails on a
// missing route: an unreachable asset simply values to zero.
type Resolver struct {
	assets   *Assets
	pools    storage.PoolStore
	prices   storage.PriceStore
	maxDepth int
}

// NewResolver wires the resolver. maxDepth bounds nested-linear recursion.
func NewResolver(assets *Assets, pools storage.PoolStore, prices storage.PriceStore, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = 4
	}
	return &Resolver{assets: assets, pools: pools, prices: prices, maxDepth: maxDepth}
}

// ValueInUSD resolves value (denominated in pricingAsset) to USD.
//
// Resolution order: stable assets are identity; nested-linear share tokens
// recurse through their main underlying token; anything else falls back to
// the first stable asset with an observed rate. No route means zero.
func (r *Resolver) ValueInUSD(ctx context.Context, value decimal.Decimal, pricingAsset string) (decimal.Decimal, error) {
	return r.valueInUSD(ctx, value, pricingAsset, 0)
}

func (r *Resolver) valueInUSD(ctx context.Context, value decimal.Decimal, pricingAsset string, depth int) (decimal.Decimal, error) {
	if depth >= r.maxDepth {
		return decimal.Zero, nil
	}

	if r.assets.IsUSDStable(pricingAsset) {
		return value, nil
	}

	if r.assets.IsNestedLinear(pricingAsset) {
		pool, err := r.pools.LoadPoolByAddress(ctx, pricingAsset)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return decimal.Zero, nil
			}
			return decimal.Zero, fmt.Errorf("load linear pool %s: %w", pricingAsset, err)
		}
		if pool.MainIndex < 0 || pool.MainIndex >= len(pool.TokenAddresses) {
			return decimal.Zero, nil
		}
		underlying := pool.TokenAddresses[pool.MainIndex]
		rate, err := r.prices.LoadTokenPrice(ctx, pricingAsset, underlying)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return decimal.Zero, nil
			}
			return decimal.Zero, fmt.Errorf("load token price %s/%s: %w", pricingAsset, underlying, err)
		}
		return r.valueInUSD(ctx, value.Mul(rate.Price), underlying, depth+1)
	}

	for _, stable := range r.assets.Stables() {
		rate, err := r.prices.LoadTokenPrice(ctx, pricingAsset, stable)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return decimal.Zero, fmt.Errorf("load token price %s/%s: %w", pricingAsset, stable, err)
		}
		return value.Mul(rate.Price), nil
	}

	return decimal.Zero, nil
}

// SwapValueInUSD estimates the USD value of one swap. A stable leg is taken at
// face value, tokenOut side preferred. Otherwise both legs are resolved and
// averaged; when only one leg has a route, that leg counts in full.
func (r *Resolver) SwapValueInUSD(ctx context.Context, tokenIn string, amountIn decimal.Decimal, tokenOut string, amountOut decimal.Decimal) (decimal.Decimal, error) {
	if r.assets.IsUSDStable(tokenOut) {
		return r.ValueInUSD(ctx, amountOut, tokenOut)
	}
	if r.assets.IsUSDStable(tokenIn) {
		return r.ValueInUSD(ctx, amountIn, tokenIn)
	}

	inUSD, err := r.ValueInUSD(ctx, amountIn, tokenIn)
	if err != nil {
		return decimal.Zero, err
	}
	outUSD, err := r.ValueInUSD(ctx, amountOut, tokenOut)
	if err != nil {
		return decimal.Zero, err
	}

	divisor := scale.One
	if inUSD.IsPositive() && outUSD.IsPositive() {
		divisor = decimal.NewFromInt(2)
	}
	return inUSD.Add(outUSD).Div(divisor), nil
}

// LatestUSD reports the cached USD price singleton for token, zero when the
// token has never been priced.
func (r *Resolver) LatestUSD(ctx context.Context, token string) (decimal.Decimal, error) {
	lp, err := r.prices.LoadLatestTokenPrice(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return lp.PriceUSD, nil
}
