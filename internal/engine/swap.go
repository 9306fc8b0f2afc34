package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/metrics"
	"vault-analytics-lab/internal/pricing"
	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// handleSwap applies one vault swap event: refresh gate, balance updates,
// volume/fee metrics for genuine swaps, spot-price recording and the final
// pool revaluation. Phantom-pool joins/exits disguised as swaps move balances
// and shares but never count as volume.
func (e *Engine) handleSwap(ctx context.Context, ev *domain.Event) error {
	p := ev.Swap
	if p == nil {
		e.log.Warn("swap event without params", zap.String("pool", ev.PoolID))
		return nil
	}
	// Zero amounts appear on swaps against unsupported tokens; they carry no
	// economic meaning.
	if p.AmountIn.IsZero() || p.AmountOut.IsZero() {
		e.log.Warn("discarding zero-amount swap",
			zap.String("pool", ev.PoolID),
			zap.String("tx", ev.TxHash))
		return nil
	}

	pool, err := e.store.LoadPool(ctx, ev.PoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Error("swap against unknown pool", zap.String("pool", ev.PoolID), zap.String("tx", ev.TxHash))
			return nil
		}
		return fmt.Errorf("load pool: %w", err)
	}

	class := ClassifySwap(pool, p.TokenIn, p.TokenOut)

	if err := e.refreshPoolParams(ctx, pool, ev.Block.Timestamp); err != nil {
		return err
	}

	inToken, err := e.store.LoadToken(ctx, p.TokenIn)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Error("swap with unknown token", zap.String("token", p.TokenIn), zap.String("tx", ev.TxHash))
			return nil
		}
		return fmt.Errorf("load token: %w", err)
	}
	outToken, err := e.store.LoadToken(ctx, p.TokenOut)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Error("swap with unknown token", zap.String("token", p.TokenOut), zap.String("tx", ev.TxHash))
			return nil
		}
		return fmt.Errorf("load token: %w", err)
	}
	amountIn := scale.Down(p.AmountIn.Int, inToken.Decimals)
	amountOut := scale.Down(p.AmountOut.Int, outToken.Decimals)

	poolTokenIn, err := e.store.LoadPoolToken(ctx, ev.PoolID, p.TokenIn)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Error("pool token not found for swap",
				zap.String("pool", ev.PoolID), zap.String("token", p.TokenIn))
			return nil
		}
		return fmt.Errorf("load pool token: %w", err)
	}
	poolTokenOut, err := e.store.LoadPoolToken(ctx, ev.PoolID, p.TokenOut)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Error("pool token not found for swap",
				zap.String("pool", ev.PoolID), zap.String("token", p.TokenOut))
			return nil
		}
		return fmt.Errorf("load pool token: %w", err)
	}

	swapValueUSD := decimal.Zero
	swapFeeUSD := decimal.Zero
	if class == SwapClassSwap {
		cfg, err := e.store.LoadSwapConfig(ctx, ev.PoolID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				e.log.Error("swap config not found", zap.String("pool", ev.PoolID))
				return nil
			}
			return fmt.Errorf("load swap config: %w", err)
		}
		swapValueUSD, err = e.resolver.SwapValueInUSD(ctx, p.TokenIn, amountIn, p.TokenOut, amountOut)
		if err != nil {
			return err
		}
		swapFeeUSD = swapValueUSD.Mul(cfg.Fee)
	}

	lifetime, err := metrics.LifetimePoolMetric(ctx, e.store, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}
	daily, err := metrics.DailyPoolMetric(ctx, e.store, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}

	if class == SwapClassSwap {
		if err := e.recordSwapCounters(ctx, ev, lifetime, daily, swapValueUSD, swapFeeUSD); err != nil {
			return err
		}
	}

	// Balance updates apply to every class: a phantom join/exit still moves
	// real tokens in and out of the vault.
	poolTokenIn.Balance = poolTokenIn.Balance.Add(amountIn)
	poolTokenIn.SwapCount++
	if err := e.store.SavePoolToken(ctx, poolTokenIn); err != nil {
		return err
	}
	poolTokenOut.Balance = poolTokenOut.Balance.Sub(amountOut)
	poolTokenOut.SwapCount++
	if err := e.store.SavePoolToken(ctx, poolTokenOut); err != nil {
		return err
	}

	if err := e.moveVaultBalances(ctx, ev, p.TokenIn, amountIn, p.TokenOut, amountOut); err != nil {
		return err
	}

	tokenOutPrice, tokenInPrice, err := e.recordSpotPrices(ctx, ev, pool, lifetime, amountIn, amountOut)
	if err != nil {
		return err
	}
	if tokenOutPrice != nil {
		if err := pricing.RecordHourlyPrice(ctx, e.store, p.TokenOut, tokenOutPrice.PriceUSD, ev.Block); err != nil {
			return err
		}
	}
	if tokenInPrice != nil {
		if err := pricing.RecordHourlyPrice(ctx, e.store, p.TokenIn, tokenInPrice.PriceUSD, ev.Block); err != nil {
			return err
		}
	}

	switch class {
	case SwapClassExit:
		if err := e.recordPhantomExit(ctx, ev, pool, lifetime, daily, amountIn, amountOut, tokenOutPrice); err != nil {
			return err
		}
	case SwapClassJoin:
		if err := e.recordPhantomJoin(ctx, ev, pool, lifetime, daily, amountIn, amountOut, tokenInPrice); err != nil {
			return err
		}
	default:
		if err := e.recordGenuineSwap(ctx, ev, amountIn, amountOut, swapValueUSD); err != nil {
			return err
		}
	}

	if asset := e.assets.Preferential([]string{p.TokenIn, p.TokenOut}); asset != "" {
		if _, err := e.valuator.UpdatePoolLiquidity(ctx, ev.PoolID, asset, ev.Block); err != nil {
			return err
		}
	}
	return nil
}

// recordSwapCounters folds one genuine swap's volume, fee and count into the
// pool and vault metric records, diffing against yesterday's bucket for the
// 24h-change figures.
func (e *Engine) recordSwapCounters(ctx context.Context, ev *domain.Event, lifetime *domain.LifetimePoolMetric, daily *domain.DailyPoolMetric, valueUSD, feeUSD decimal.Decimal) error {
	lifetime.SwapCount++
	lifetime.TotalSwapVolume = lifetime.TotalSwapVolume.Add(valueUSD)
	lifetime.TotalSwapFee = lifetime.TotalSwapFee.Add(feeUSD)
	if err := e.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return err
	}

	daily.SwapCount24h++
	daily.TotalSwapCount = lifetime.SwapCount
	daily.SwapVolume24h = daily.SwapVolume24h.Add(valueUSD)
	daily.TotalSwapVolume = lifetime.TotalSwapVolume
	daily.SwapFee24h = daily.SwapFee24h.Add(feeUSD)
	daily.TotalSwapFee = lifetime.TotalSwapFee
	yesterday, err := metrics.DailyPoolMetricAtDay(ctx, e.store, ev.PoolID, daily.Day-1)
	switch {
	case err == nil:
		daily.SwapCountChange24h = daily.SwapCount24h - yesterday.SwapCount24h
		daily.SwapVolumeChange24h = daily.SwapVolume24h.Sub(yesterday.SwapVolume24h)
		daily.SwapFeeChange24h = daily.SwapFee24h.Sub(yesterday.SwapFee24h)
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}
	if err := e.store.SaveDailyPoolMetric(ctx, daily); err != nil {
		return err
	}

	lifetimeVault, err := metrics.LifetimeVaultMetric(ctx, e.store, ev.Block)
	if err != nil {
		return err
	}
	lifetimeVault.SwapCount++
	lifetimeVault.TotalSwapVolume = lifetimeVault.TotalSwapVolume.Add(valueUSD)
	lifetimeVault.TotalSwapFee = lifetimeVault.TotalSwapFee.Add(feeUSD)
	if err := e.store.SaveLifetimeVaultMetric(ctx, lifetimeVault); err != nil {
		return err
	}

	dailyVault, err := metrics.DailyVaultMetric(ctx, e.store, ev.Block)
	if err != nil {
		return err
	}
	dailyVault.SwapCount24h++
	dailyVault.TotalSwapCount = lifetimeVault.SwapCount
	dailyVault.SwapVolume24h = dailyVault.SwapVolume24h.Add(valueUSD)
	dailyVault.TotalSwapVolume = lifetimeVault.TotalSwapVolume
	dailyVault.SwapFee24h = dailyVault.SwapFee24h.Add(feeUSD)
	dailyVault.TotalSwapFee = lifetimeVault.TotalSwapFee
	vaultYesterday, err := metrics.DailyVaultMetricAtDay(ctx, e.store, dailyVault.Day-1)
	switch {
	case err == nil:
		dailyVault.SwapCountChange24h = dailyVault.SwapCount24h - vaultYesterday.SwapCount24h
		dailyVault.SwapVolumeChange24h = dailyVault.SwapVolume24h.Sub(vaultYesterday.SwapVolume24h)
		dailyVault.SwapFeeChange24h = dailyVault.SwapFee24h.Sub(vaultYesterday.SwapFee24h)
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}
	return e.store.SaveDailyVaultMetric(ctx, dailyVault)
}

// moveVaultBalances mirrors the swap's token movement into the vault-wide and
// daily token balance records.
func (e *Engine) moveVaultBalances(ctx context.Context, ev *domain.Event, tokenIn string, amountIn decimal.Decimal, tokenOut string, amountOut decimal.Decimal) error {
	vtIn, err := e.ensureVaultToken(ctx, tokenIn)
	if err != nil {
		return err
	}
	vtIn.Balance = vtIn.Balance.Add(amountIn)
	vtIn.SwapCount++
	if err := e.store.SaveVaultToken(ctx, vtIn); err != nil {
		return err
	}

	vtOut, err := e.ensureVaultToken(ctx, tokenOut)
	if err != nil {
		return err
	}
	vtOut.Balance = vtOut.Balance.Sub(amountOut)
	vtOut.SwapCount++
	if err := e.store.SaveVaultToken(ctx, vtOut); err != nil {
		return err
	}

	dvtIn, err := metrics.DailyVaultToken(ctx, e.store, tokenIn, ev.Block)
	if err != nil {
		return err
	}
	dvtIn.TotalBalance = vtIn.Balance
	dvtIn.BalanceChange24h = dvtIn.BalanceChange24h.Add(amountIn)
	if err := e.store.SaveDailyVaultToken(ctx, dvtIn); err != nil {
		return err
	}

	dvtOut, err := metrics.DailyVaultToken(ctx, e.store, tokenOut, ev.Block)
	if err != nil {
		return err
	}
	dvtOut.TotalBalance = vtOut.Balance
	dvtOut.BalanceChange24h = dvtOut.BalanceChange24h.Sub(amountOut)
	if err := e.store.SaveDailyVaultToken(ctx, dvtOut); err != nil {
		return err
	}

	dptIn, err := metrics.DailyPoolToken(ctx, e.store, ev.PoolID, tokenIn, ev.Block)
	if err != nil {
		return err
	}
	ptIn, err := e.store.LoadPoolToken(ctx, ev.PoolID, tokenIn)
	if err != nil {
		return err
	}
	dptIn.TotalBalance = ptIn.Balance
	dptIn.BalanceChange24h = dptIn.BalanceChange24h.Add(amountIn)
	if err := e.store.SaveDailyPoolToken(ctx, dptIn); err != nil {
		return err
	}

	dptOut, err := metrics.DailyPoolToken(ctx, e.store, ev.PoolID, tokenOut, ev.Block)
	if err != nil {
		return err
	}
	ptOut, err := e.store.LoadPoolToken(ctx, ev.PoolID, tokenOut)
	if err != nil {
		return err
	}
	dptOut.TotalBalance = ptOut.Balance
	dptOut.BalanceChange24h = dptOut.BalanceChange24h.Sub(amountOut)
	return e.store.SaveDailyPoolToken(ctx, dptOut)
}

// recordSpotPrices writes new directional TokenPrice records for each swap leg
// whose opposite side is a pricing asset, gated on the pool clearing the
// minimum viable liquidity floor. Returns the records (possibly pre-existing
// ones) for the hourly roll-up.
func (e *Engine) recordSpotPrices(ctx context.Context, ev *domain.Event, pool *domain.Pool, lifetime *domain.LifetimePoolMetric, amountIn, amountOut decimal.Decimal) (tokenOutPrice, tokenInPrice *domain.TokenPrice, err error) {
	p := ev.Swap

	tokenOutPrice, err = e.loadPriceOrNil(ctx, p.TokenOut, p.TokenIn)
	if err != nil {
		return nil, nil, err
	}
	tokenInPrice, err = e.loadPriceOrNil(ctx, p.TokenIn, p.TokenOut)
	if err != nil {
		return nil, nil, err
	}

	viable := lifetime.TotalLiquidity.GreaterThan(e.minLiq)

	if e.assets.IsPricingAsset(p.TokenIn) && viable {
		if tokenOutPrice == nil {
			tokenOutPrice, err = pricing.GetOrCreateTokenPrice(ctx, e.store, p.TokenOut, p.TokenIn, ev.Block)
			if err != nil {
				return nil, nil, err
			}
		}
		if err := e.fillSpotPrice(ctx, ev, pool, tokenOutPrice, amountIn, p.TokenIn, amountOut, p.TokenOut); err != nil {
			return nil, nil, err
		}
	}

	if e.assets.IsPricingAsset(p.TokenOut) && viable {
		if tokenInPrice == nil {
			tokenInPrice, err = pricing.GetOrCreateTokenPrice(ctx, e.store, p.TokenIn, p.TokenOut, ev.Block)
			if err != nil {
				return nil, nil, err
			}
		}
		if err := e.fillSpotPrice(ctx, ev, pool, tokenInPrice, amountOut, p.TokenOut, amountIn, p.TokenIn); err != nil {
			return nil, nil, err
		}
	}

	return tokenOutPrice, tokenInPrice, nil
}

// fillSpotPrice computes the spot price of the priced leg in units of the
// pricing leg and persists the record plus the latest-USD singleton.
func (e *Engine) fillSpotPrice(ctx context.Context, ev *domain.Event, pool *domain.Pool, tp *domain.TokenPrice, pricingAmount decimal.Decimal, pricingToken string, pricedAmount decimal.Decimal, pricedToken string) error {
	pricingWeight, pricedWeight := decimal.Zero, decimal.Zero
	if pool.Type == domain.PoolTypeWeighted {
		ptPricing, err := e.store.LoadPoolToken(ctx, pool.ID, pricingToken)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err == nil {
			pricingWeight = ptPricing.Weight
		}
		ptPriced, err := e.store.LoadPoolToken(ctx, pool.ID, pricedToken)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err == nil {
			pricedWeight = ptPriced.Weight
		}
	}

	price, weightFallback := pricing.SpotPrice(pool.Type, pricingAmount, pricingWeight, pricedAmount, pricedWeight)
	if weightFallback {
		e.log.Warn("zero cached weight, using amount ratio",
			zap.String("pool", pool.ID),
			zap.String("token", pricedToken))
	}

	priceUSD, err := e.resolver.ValueInUSD(ctx, price, pricingToken)
	if err != nil {
		return err
	}

	tp.Amount = pricingAmount
	tp.Price = price
	tp.PriceUSD = priceUSD
	tp.Timestamp = ev.Block.Timestamp
	tp.Block = ev.Block.Number
	if err := e.store.SaveTokenPrice(ctx, tp); err != nil {
		return err
	}

	latest, err := pricing.GetOrCreateLatestTokenPrice(ctx, e.store, pricedToken)
	if err != nil {
		return err
	}
	latest.PriceUSD = priceUSD
	return e.store.SaveLatestTokenPrice(ctx, latest)
}

func (e *Engine) loadPriceOrNil(ctx context.Context, token, pricingAsset string) (*domain.TokenPrice, error) {
	tp, err := e.store.LoadTokenPrice(ctx, token, pricingAsset)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tp, nil
}

// refreshPoolParams re-reads weights or the amplification factor when an
// active gradual-update window (plus grace period) covers the block timestamp.
func (e *Engine) refreshPoolParams(ctx context.Context, pool *domain.Pool, timestamp int64) error {
	switch {
	case pool.Type.WeightedFamily():
		upd, err := e.store.LoadGradualWeightUpdate(ctx, pool.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		}
		if !upd.Due(timestamp) || e.weights == nil {
			return nil
		}
		weights, err := e.weights.NormalizedWeights(ctx, pool)
		if err != nil {
			e.log.Warn("weight refresh failed", zap.String("pool", pool.ID), zap.Error(err))
			return nil
		}
		if len(weights) != len(pool.TokenAddresses) {
			e.log.Warn("weight refresh returned wrong arity", zap.String("pool", pool.ID))
			return nil
		}
		for i, token := range pool.TokenAddresses {
			pt, err := e.store.LoadPoolToken(ctx, pool.ID, token)
			if err != nil {
				return err
			}
			pt.Weight = weights[i]
			if err := e.store.SavePoolToken(ctx, pt); err != nil {
				return err
			}
		}
	case pool.Type.StableLike():
		upd, err := e.store.LoadGradualAmpUpdate(ctx, pool.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return err
		}
		if !upd.Due(timestamp) || e.amps == nil {
			return nil
		}
		amp, err := e.amps.Amp(ctx, pool)
		if err != nil {
			e.log.Warn("amp refresh failed", zap.String("pool", pool.ID), zap.Error(err))
			return nil
		}
		pool.Amp = amp
		return e.store.SavePool(ctx, pool)
	}
	return nil
}

func (e *Engine) ensureVaultToken(ctx context.Context, address string) (*domain.VaultToken, error) {
	vt, err := e.store.LoadVaultToken(ctx, address)
	if err == nil {
		return vt, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return &domain.VaultToken{Address: address}, nil
}
