package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/metrics"
	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// Valuator revalues pool liquidity in USD and rolls the changes up into the
// pool, vault and share-price records.
type Valuator struct {
	store    storage.Store
	assets   *Assets
	resolver *Resolver
	log      *zap.Logger
}

// NewValuator wires the valuator.
func NewValuator(store storage.Store, assets *Assets, resolver *Resolver, log *zap.Logger) *Valuator {
	return &Valuator{store: store, assets: assets, resolver: resolver, log: log}
}

// UpdatePoolLiquidity revalues the whole pool against pricingAsset and, on
// success, commits the new lifetime/daily liquidity, the share token price and
// the vault roll-up. It reports false without mutating anything when the pool
// cannot be meaningfully valued: unknown pool, single-token list, the pool
// itself being the pricing asset, or a positive token value that resolves to
// zero USD (a pricing asset with no route back to USD yet).
func (v *Valuator) UpdatePoolLiquidity(ctx context.Context, poolID, pricingAsset string, block domain.Block) (bool, error) {
	pool, err := v.store.LoadPool(ctx, poolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load pool %s: %w", poolID, err)
	}
	if len(pool.TokenAddresses) < 2 {
		return false, nil
	}
	// A phantom pool's own share token can be a pricing asset; valuing the
	// pool against itself is meaningless.
	if pool.HasVirtualSupply() && pool.Address == pricingAsset {
		return false, nil
	}

	poolValue := decimal.Zero
	dilutedValue := decimal.Zero

	for _, tokenAddress := range pool.TokenAddresses {
		// Pre-minted share tokens are not backing value.
		if pool.HasVirtualSupply() && pool.Address == tokenAddress {
			continue
		}

		poolToken, err := v.store.LoadPoolToken(ctx, poolID, tokenAddress)
		if err != nil {
			return false, fmt.Errorf("load pool token %s/%s: %w", poolID, tokenAddress, err)
		}

		isNested, err := v.store.IsPoolAddress(ctx, tokenAddress)
		if err != nil {
			return false, fmt.Errorf("check pool address %s: %w", tokenAddress, err)
		}

		if tokenAddress == pricingAsset {
			poolValue = poolValue.Add(poolToken.Balance)
			if !isNested {
				dilutedValue = dilutedValue.Add(poolToken.Balance)
			}
			continue
		}

		price := decimal.Zero
		tokenPrice, err := v.store.LoadTokenPrice(ctx, tokenAddress, pricingAsset)
		switch {
		case err == nil:
			price = tokenPrice.Price
		case !errors.Is(err, storage.ErrNotFound):
			return false, fmt.Errorf("load token price %s/%s: %w", tokenAddress, pricingAsset, err)
		case pool.Type == domain.PoolTypeStablePhantom:
			// No direct rate observed yet. Estimate it through USD.
			pricingAssetUSD, err := v.resolver.ValueInUSD(ctx, scale.One, pricingAsset)
			if err != nil {
				return false, err
			}
			tokenUSD, err := v.resolver.ValueInUSD(ctx, scale.One, tokenAddress)
			if err != nil {
				return false, err
			}
			if pricingAssetUSD.IsZero() || tokenUSD.IsZero() {
				continue
			}
			price = tokenUSD.Div(pricingAssetUSD)
		}

		if price.IsPositive() {
			tokenValue := price.Mul(poolToken.Balance)
			poolValue = poolValue.Add(tokenValue)
			if !isNested {
				dilutedValue = dilutedValue.Add(tokenValue)
			}
		}
	}

	lifetime, err := v.store.LoadLifetimePoolMetric(ctx, poolID)
	if err != nil {
		return false, fmt.Errorf("load lifetime pool metric %s: %w", poolID, err)
	}

	newLiquidity, err := v.resolver.ValueInUSD(ctx, poolValue, pricingAsset)
	if err != nil {
		return false, err
	}
	newDiluted, err := v.resolver.ValueInUSD(ctx, dilutedValue, pricingAsset)
	if err != nil {
		return false, err
	}
	liquidityChange := newLiquidity.Sub(lifetime.TotalLiquidity)
	dilutedChange := newDiluted.Sub(lifetime.DilutedLiquidity)

	// A non-empty pool valuing to zero USD means the pricing asset has no
	// route back to USD. Commit nothing so a later asset can succeed.
	if poolValue.IsPositive() != newLiquidity.IsPositive() {
		v.log.Warn("pool value has no usd route",
			zap.String("pool", poolID),
			zap.String("pricing_asset", pricingAsset),
			zap.String("pool_value", poolValue.String()))
		return false, nil
	}

	lifetime.TotalLiquidity = newLiquidity
	lifetime.DilutedLiquidity = newDiluted
	if err := v.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return false, err
	}

	daily, err := metrics.DailyPoolMetric(ctx, v.store, poolID, block)
	if err != nil {
		return false, err
	}
	daily.LiquidityChange24h = daily.LiquidityChange24h.Add(liquidityChange)
	daily.TotalLiquidity = newLiquidity
	daily.DilutedLiquidity = newDiluted
	if err := v.store.SaveDailyPoolMetric(ctx, daily); err != nil {
		return false, err
	}

	// The share token reprices off the pool's total value.
	sharePrice, err := GetOrCreateTokenPrice(ctx, v.store, pool.Address, pricingAsset, block)
	if err != nil {
		return false, err
	}
	if lifetime.TotalShares.IsPositive() {
		sharePrice.Price = poolValue.Div(lifetime.TotalShares)
		sharePrice.PriceUSD = newLiquidity.Div(lifetime.TotalShares)
	} else {
		sharePrice.Price = decimal.Zero
		sharePrice.PriceUSD = decimal.Zero
	}
	sharePrice.Timestamp = block.Timestamp
	sharePrice.Block = block.Number
	if err := v.store.SaveTokenPrice(ctx, sharePrice); err != nil {
		return false, err
	}

	// Vault totals track diluted liquidity so nested pool tokens are not
	// counted twice.
	lifetimeVault, err := metrics.LifetimeVaultMetric(ctx, v.store, block)
	if err != nil {
		return false, err
	}
	lifetimeVault.TotalLiquidity = lifetimeVault.TotalLiquidity.Add(dilutedChange)
	if err := v.store.SaveLifetimeVaultMetric(ctx, lifetimeVault); err != nil {
		return false, err
	}

	dailyVault, err := metrics.DailyVaultMetric(ctx, v.store, block)
	if err != nil {
		return false, err
	}
	dailyVault.LiquidityChange24h = dailyVault.LiquidityChange24h.Add(dilutedChange)
	dailyVault.TotalLiquidity = lifetimeVault.TotalLiquidity
	if err := v.store.SaveDailyVaultMetric(ctx, dailyVault); err != nil {
		return false, err
	}

	return true, nil
}
