package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/metrics"
)

// recordPhantomExit books a swap that sent the pool's own share token in:
// shares are burned against the pool and the leg that left is a withdrawal.
func (e *Engine) recordPhantomExit(ctx context.Context, ev *domain.Event, pool *domain.Pool, lifetime *domain.LifetimePoolMetric, daily *domain.DailyPoolMetric, shares, amountOut decimal.Decimal, tokenOutPrice *domain.TokenPrice) error {
	p := ev.Swap

	lifetime.TotalShares = lifetime.TotalShares.Sub(shares)
	if err := e.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return err
	}
	daily.TotalShares = daily.TotalShares.Sub(shares)
	if err := e.store.SaveDailyPoolMetric(ctx, daily); err != nil {
		return err
	}

	valueUSD := decimal.Zero
	if tokenOutPrice != nil {
		valueUSD = amountOut.Mul(tokenOutPrice.PriceUSD)
	} else {
		var err error
		valueUSD, err = e.resolver.ValueInUSD(ctx, amountOut, p.TokenOut)
		if err != nil {
			return err
		}
	}

	amounts := make([]decimal.Decimal, len(pool.TokenAddresses))
	for i, token := range pool.TokenAddresses {
		if token == p.TokenOut {
			amounts[i] = amountOut
		} else {
			amounts[i] = decimal.Zero
		}
	}
	if err := e.store.SaveExitRecord(ctx, &domain.ExitRecord{
		TxHash:    ev.TxHash,
		LogIndex:  ev.LogIndex,
		PoolID:    ev.PoolID,
		Amounts:   amounts,
		ValueUSD:  valueUSD,
		User:      p.Sender,
		Timestamp: ev.Block.Timestamp,
	}); err != nil {
		return err
	}

	return e.bookWithdrawal(ctx, ev, p.Sender, valueUSD)
}

// recordPhantomJoin books a swap that paid out the pool's own share token:
// shares are minted and the leg that came in is an investment.
func (e *Engine) recordPhantomJoin(ctx context.Context, ev *domain.Event, pool *domain.Pool, lifetime *domain.LifetimePoolMetric, daily *domain.DailyPoolMetric, amountIn, shares decimal.Decimal, tokenInPrice *domain.TokenPrice) error {
	p := ev.Swap

	lifetime.TotalShares = lifetime.TotalShares.Add(shares)
	if err := e.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return err
	}
	daily.TotalShares = daily.TotalShares.Add(shares)
	if err := e.store.SaveDailyPoolMetric(ctx, daily); err != nil {
		return err
	}

	valueUSD := decimal.Zero
	if tokenInPrice != nil {
		valueUSD = amountIn.Mul(tokenInPrice.PriceUSD)
	} else {
		var err error
		valueUSD, err = e.resolver.ValueInUSD(ctx, amountIn, p.TokenIn)
		if err != nil {
			return err
		}
	}

	amounts := make([]decimal.Decimal, len(pool.TokenAddresses))
	for i, token := range pool.TokenAddresses {
		if token == p.TokenIn {
			amounts[i] = amountIn
		} else {
			amounts[i] = decimal.Zero
		}
	}
	if err := e.store.SaveJoinRecord(ctx, &domain.JoinRecord{
		TxHash:    ev.TxHash,
		LogIndex:  ev.LogIndex,
		PoolID:    ev.PoolID,
		Amounts:   amounts,
		ValueUSD:  valueUSD,
		User:      p.Sender,
		Timestamp: ev.Block.Timestamp,
	}); err != nil {
		return err
	}

	return e.bookInvestment(ctx, ev, p.Sender, valueUSD)
}

// recordGenuineSwap persists the swap record and books the user's volume.
func (e *Engine) recordGenuineSwap(ctx context.Context, ev *domain.Event, amountIn, amountOut, valueUSD decimal.Decimal) error {
	p := ev.Swap

	if err := e.store.SaveSwapRecord(ctx, &domain.SwapRecord{
		TxHash:    ev.TxHash,
		LogIndex:  ev.LogIndex,
		PoolID:    ev.PoolID,
		TokenIn:   p.TokenIn,
		TokenOut:  p.TokenOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
		ValueUSD:  valueUSD,
		User:      p.Sender,
		Timestamp: ev.Block.Timestamp,
	}); err != nil {
		return err
	}

	dupm, err := metrics.DailyUserPoolMetric(ctx, e.store, p.Sender, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}
	dupm.SwapVolume = dupm.SwapVolume.Add(valueUSD)
	if err := e.store.SaveDailyUserPoolMetric(ctx, dupm); err != nil {
		return err
	}

	dum, err := metrics.DailyUserMetric(ctx, e.store, p.Sender, ev.Block)
	if err != nil {
		return err
	}
	dum.SwapVolume = dum.SwapVolume.Add(valueUSD)
	if err := e.store.SaveDailyUserMetric(ctx, dum); err != nil {
		return err
	}

	lum, err := metrics.LifetimeUserMetric(ctx, e.store, p.Sender)
	if err != nil {
		return err
	}
	lum.SwapVolume = lum.SwapVolume.Add(valueUSD)
	return e.store.SaveLifetimeUserMetric(ctx, lum)
}

// bookInvestment adds a USD join value to the user's daily and lifetime
// activity records.
func (e *Engine) bookInvestment(ctx context.Context, ev *domain.Event, user string, valueUSD decimal.Decimal) error {
	dupm, err := metrics.DailyUserPoolMetric(ctx, e.store, user, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}
	dupm.Invested = dupm.Invested.Add(valueUSD)
	if err := e.store.SaveDailyUserPoolMetric(ctx, dupm); err != nil {
		return err
	}

	dum, err := metrics.DailyUserMetric(ctx, e.store, user, ev.Block)
	if err != nil {
		return err
	}
	dum.Invested = dum.Invested.Add(valueUSD)
	if err := e.store.SaveDailyUserMetric(ctx, dum); err != nil {
		return err
	}

	lum, err := metrics.LifetimeUserMetric(ctx, e.store, user)
	if err != nil {
		return err
	}
	lum.Invested = lum.Invested.Add(valueUSD)
	return e.store.SaveLifetimeUserMetric(ctx, lum)
}

// bookWithdrawal is the exit-side counterpart of bookInvestment.
func (e *Engine) bookWithdrawal(ctx context.Context, ev *domain.Event, user string, valueUSD decimal.Decimal) error {
	dupm, err := metrics.DailyUserPoolMetric(ctx, e.store, user, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}
	dupm.Withdrawn = dupm.Withdrawn.Add(valueUSD)
	if err := e.store.SaveDailyUserPoolMetric(ctx, dupm); err != nil {
		return err
	}

	dum, err := metrics.DailyUserMetric(ctx, e.store, user, ev.Block)
	if err != nil {
		return err
	}
	dum.Withdrawn = dum.Withdrawn.Add(valueUSD)
	if err := e.store.SaveDailyUserMetric(ctx, dum); err != nil {
		return err
	}

	lum, err := metrics.LifetimeUserMetric(ctx, e.store, user)
	if err != nil {
		return err
	}
	lum.Withdrawn = lum.Withdrawn.Add(valueUSD)
	return e.store.SaveLifetimeUserMetric(ctx, lum)
}
