package engine

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

// handleTransfer applies a BPT transfer: mint and burn move totalShares, all
// three shapes move per-user share balances, and holder count follows a
// balance crossing zero in either direction against its pre-event value.
func (e *Engine) handleTransfer(ctx context.Context, ev *domain.Event) error {
	p := ev.Transfer
	if p == nil {
		e.log.Warn("transfer event without params", zap.String("pool", ev.PoolID))
		return nil
	}

	// A self-transfer moves nothing. Without this guard a zero-to-zero event
	// would read as both a mint and a burn, and a non-zero self-transfer would
	// load the same share record twice and apply only one side.
	if p.From == p.To {
		return nil
	}

	if _, err := e.store.LoadPool(ctx, ev.PoolID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("transfer for unknown pool", zap.String("pool", ev.PoolID), zap.String("tx", ev.TxHash))
			return nil
		}
		return fmt.Errorf("load pool: %w", err)
	}

	value := scale.Down(p.Value.Int, domain.BPTDecimals)
	isMint := p.From == domain.ZeroAddress
	isBurn := p.To == domain.ZeroAddress

	lifetime, err := metrics.LifetimePoolMetric(ctx, e.store, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}

	var sharesFrom, sharesTo *domain.PoolShares
	fromBefore, toBefore := decimal.Zero, decimal.Zero
	if !isMint {
		if sharesFrom, err = e.ensurePoolShares(ctx, ev.PoolID, p.From); err != nil {
			return err
		}
		fromBefore = sharesFrom.Balance
	}
	if !isBurn {
		if sharesTo, err = e.ensurePoolShares(ctx, ev.PoolID, p.To); err != nil {
			return err
		}
		toBefore = sharesTo.Balance
	}

	switch {
	case isMint:
		sharesTo.Balance = sharesTo.Balance.Add(value)
		if err := e.store.SavePoolShares(ctx, sharesTo); err != nil {
			return err
		}
		lifetime.TotalShares = lifetime.TotalShares.Add(value)
	case isBurn:
		sharesFrom.Balance = sharesFrom.Balance.Sub(value)
		if err := e.store.SavePoolShares(ctx, sharesFrom); err != nil {
			return err
		}
		lifetime.TotalShares = lifetime.TotalShares.Sub(value)
	default:
		sharesTo.Balance = sharesTo.Balance.Add(value)
		if err := e.store.SavePoolShares(ctx, sharesTo); err != nil {
			return err
		}
		sharesFrom.Balance = sharesFrom.Balance.Sub(value)
		if err := e.store.SavePoolShares(ctx, sharesFrom); err != nil {
			return err
		}
	}

	if sharesTo != nil && !sharesTo.Balance.IsZero() && toBefore.IsZero() {
		lifetime.HoldersCount++
	}
	if sharesFrom != nil && sharesFrom.Balance.IsZero() && !fromBefore.IsZero() {
		lifetime.HoldersCount--
	}

	if err := e.store.SaveLifetimePoolMetric(ctx, lifetime); err != nil {
		return err
	}

	// Keep the day bucket's share total in sync with the lifetime record.
	daily, err := metrics.DailyPoolMetric(ctx, e.store, ev.PoolID, ev.Block)
	if err != nil {
		return err
	}
	daily.TotalShares = lifetime.TotalShares
	return e.store.SaveDailyPoolMetric(ctx, daily)
}

func (e *Engine) ensurePoolShares(ctx context.Context, poolID, user string) (*domain.PoolShares, error) {
	s, err := e.store.LoadPoolShares(ctx, poolID, user)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return &domain.PoolShares{PoolID: poolID, User: user}, nil
}
