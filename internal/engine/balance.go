package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/metrics"
	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// stablePhantomPremint is the share supply a StablePhantom pool mints to
// itself at creation. Observing it as totalShares means the first join has not
// been netted out yet.
var stablePhantomPremint = decimal.RequireFromString("5192296858534827.628530496329220095")

// handleBalanceChanged applies a native vault join or exit: the delta vector
// is aligned with the pool's token list, positive sum means join.
func (e *Engine) handleBalanceChanged(ctx context.Context, ev *domain.Event) error {
	p := ev.BalanceChanged
	if p == nil {
		e.log.Warn("balance change without params", zap.String("pool", ev.PoolID))
		return nil
	}
	class := ClassifyBalanceChange(p.Deltas)
	if class == BalanceClassNoop {
		return nil
	}

	pool, err := e.store.LoadPool(ctx, ev.PoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("balance change for unknown pool",
				zap.String("pool", ev.PoolID), zap.String("tx", ev.TxHash))
			return nil
		}
		return fmt.Errorf("load pool: %w", err)
	}
	if len(p.Deltas) != len(pool.TokenAddresses) {
		e.log.Error("balance change delta arity mismatch",
			zap.String("pool", ev.PoolID),
			zap.Int("deltas", len(p.Deltas)),
			zap.Int("tokens", len(pool.TokenAddresses)))
		return nil
	}

	exit := class == BalanceClassExit
	amounts := make([]decimal.Decimal, len(pool.TokenAddresses))
	valueUSD := decimal.Zero

	for i, tokenAddress := range pool.TokenAddresses {
		token, err := e.store.LoadToken(ctx, tokenAddress)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				e.log.Error("balance change with unknown token",
					zap.String("pool", ev.PoolID), zap.String("token", tokenAddress))
				return nil
			}
			return fmt.Errorf("load token: %w", err)
		}
		poolToken, err := e.store.LoadPoolToken(ctx, ev.PoolID, tokenAddress)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				e.log.Error("pool token not found for balance change",
					zap.String("pool", ev.PoolID), zap.String("token", tokenAddress))
				return nil
			}
			return fmt.Errorf("load pool token: %w", err)
		}

		raw := p.Deltas[i].Int
		if raw == nil {
			raw = new(big.Int)
		}
		// Exit amounts are reported as positive withdrawals.
		if exit {
			raw = new(big.Int).Neg(raw)
		}
		amount := scale.Down(raw, token.Decimals)
		amounts[i] = amount

		tokenUSD, err := e.resolver.ValueInUSD(ctx, amount, tokenAddress)
		if err != nil {
			return err
		}
		valueUSD = valueUSD.Add(tokenUSD)

		if exit {
			poolToken.Balance = poolToken.Balance.Sub(amount)
		} else {
			poolToken.Balance = poolToken.Balance.Add(amount)
		}
		if err := e.store.SavePoolToken(ctx, poolToken); err != nil {
			return err
		}

		vaultToken, err := e.ensureVaultToken(ctx, tokenAddress)
		if err != nil {
			return err
		}
		if exit {
			vaultToken.Balance = vaultToken.Balance.Sub(amount)
		} else {
			vaultToken.Balance = vaultToken.Balance.Add(amount)
		}
		if err := e.store.SaveVaultToken(ctx, vaultToken); err != nil {
			return err
		}

		dvt, err := metrics.DailyVaultToken(ctx, e.store, tokenAddress, ev.Block)
		if err != nil {
			return err
		}
		dvt.TotalBalance = vaultToken.Balance
		dvt.BalanceChange24h = dvt.BalanceChange24h.Add(amount)
		if err := e.store.SaveDailyVaultToken(ctx, dvt); err != nil {
			return err
		}

		dpt, err := metrics.DailyPoolToken(ctx, e.store, ev.PoolID, tokenAddress, ev.Block)
		if err != nil {
			return err
		}
		dpt.TotalBalance = poolToken.Balance
		dpt.BalanceChange24h = dpt.BalanceChange24h.Add(amount)
		if err := e.store.SaveDailyPoolToken(ctx, dpt); err != nil {
			return err
		}
	}

	if exit {
		if err := e.store.SaveExitRecord(ctx, &domain.ExitRecord{
			TxHash:    ev.TxHash,
			LogIndex:  ev.LogIndex,
			PoolID:    ev.PoolID,
			Amounts:   amounts,
			ValueUSD:  valueUSD,
			User:      p.LiquidityProvider,
			Timestamp: ev.Block.Timestamp,
		}); err != nil {
			return err
		}
		if err := e.bookWithdrawal(ctx, ev, p.LiquidityProvider, valueUSD); err != nil {
			return err
		}
	} else {
		if err := e.store.SaveJoinRecord(ctx, &domain.JoinRecord{
			TxHash:    ev.TxHash,
			LogIndex:  ev.LogIndex,
			PoolID:    ev.PoolID,
			Amounts:   amounts,
			ValueUSD:  valueUSD,
			User:      p.LiquidityProvider,
			Timestamp: ev.Block.Timestamp,
		}); err != nil {
			return err
		}
		if err := e.bookInvestment(ctx, ev, p.LiquidityProvider, valueUSD); err != nil {
			return err
		}
	}

	// Some pricing assets may not have a USD route yet; keep trying down the
	// token list until one values the pool.
	for _, tokenAddress := range pool.TokenAddresses {
		if !e.assets.IsPricingAsset(tokenAddress) {
			continue
		}
		ok, err := e.valuator.UpdatePoolLiquidity(ctx, ev.PoolID, tokenAddress, ev.Block)
		if err != nil {
			return err
		}
		if ok {
			break
		}
	}

	if !exit && pool.Type == domain.PoolTypeStablePhantom {
		if err := e.correctPhantomPremint(ctx, ev, pool, p.Deltas); err != nil {
			return err
		}
	}
	return nil
}

// correctPhantomPremint nets the untouched pre-minted supply out of
// totalShares on a StablePhantom pool's first join.
func (e *Engine) correctPhantomPremint(ctx context.Context, ev *domain.Event, pool *domain.Pool, deltas []domain.BigInt) error {
	lifetime, err := metrics.LifetimePoolMetric(ctx, e.store, pool.ID, ev.Block)
	if err != nil {
		return err
	}
	if !lifetime.TotalShares.Equal(stablePhantomPremint) {
		return nil
	}

	initialBpt := decimal.Zero
	for i, tokenAddress := range pool.TokenAddresses {
		if tokenAddress == pool.Address && i < len(deltas) {
			initialBpt = scale.Down(deltas[i].Int, domain.BPTDecimals)
			break
		}
	}

	lifetime.TotalShares = stablePhantomPremint.Sub(initialBpt)
	if err := e.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return err
	}
	daily, err := metrics.DailyPoolMetric(ctx, e.store, pool.ID, ev.Block)
	if err != nil {
		return err
	}
	daily.TotalShares = lifetime.TotalShares
	return e.store.SaveDailyPoolMetric(ctx, daily)
}
