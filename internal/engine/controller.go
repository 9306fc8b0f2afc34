package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/scale"
	"vault-analytics-lab/internal/storage"
)

// Pool parameter changes: fees, swap enablement and gradual weight/amp update
// scheduling. Raw percentages arrive as 1e18-scaled fractions.

func (e *Engine) handleFeeChanged(ctx context.Context, ev *domain.Event) error {
	p := ev.FeeChanged
	if p == nil {
		e.log.Warn("fee change without params", zap.String("pool", ev.PoolID))
		return nil
	}
	cfg, err := e.loadSwapConfigOrDrop(ctx, ev)
	if cfg == nil || err != nil {
		return err
	}
	cfg.Fee = scale.Down(p.SwapFeePercentage.Int, 18)
	return e.store.SaveSwapConfig(ctx, cfg)
}

func (e *Engine) handleSwapEnabledSet(ctx context.Context, ev *domain.Event) error {
	p := ev.SwapEnabled
	if p == nil {
		e.log.Warn("swap enabled change without params", zap.String("pool", ev.PoolID))
		return nil
	}
	cfg, err := e.loadSwapConfigOrDrop(ctx, ev)
	if cfg == nil || err != nil {
		return err
	}
	cfg.SwapEnabled = p.Enabled
	return e.store.SaveSwapConfig(ctx, cfg)
}

func (e *Engine) handleManagementFeeChanged(ctx context.Context, ev *domain.Event) error {
	p := ev.ManagementFee
	if p == nil {
		e.log.Warn("management fee change without params", zap.String("pool", ev.PoolID))
		return nil
	}
	cfg, err := e.loadSwapConfigOrDrop(ctx, ev)
	if cfg == nil || err != nil {
		return err
	}
	cfg.ManagementFee = scale.Down(p.ManagementFeePercentage.Int, 18)
	return e.store.SaveSwapConfig(ctx, cfg)
}

// handleWeightUpdateScheduled records the pool's interpolation window. A pool
// carries at most one window; a new schedule replaces the previous one.
func (e *Engine) handleWeightUpdateScheduled(ctx context.Context, ev *domain.Event) error {
	p := ev.WeightUpdate
	if p == nil {
		e.log.Warn("weight update without params", zap.String("pool", ev.PoolID))
		return nil
	}
	return e.store.SaveGradualWeightUpdate(ctx, &domain.GradualWeightUpdate{
		PoolID:             ev.PoolID,
		ScheduledTimestamp: ev.Block.Timestamp,
		StartTimestamp:     p.StartTimestamp,
		EndTimestamp:       p.EndTimestamp,
	})
}

func (e *Engine) handleAmpUpdateStarted(ctx context.Context, ev *domain.Event) error {
	p := ev.AmpUpdate
	if p == nil {
		e.log.Warn("amp update without params", zap.String("pool", ev.PoolID))
		return nil
	}
	return e.store.SaveGradualAmpUpdate(ctx, &domain.GradualAmpUpdate{
		PoolID:             ev.PoolID,
		ScheduledTimestamp: ev.Block.Timestamp,
		StartTimestamp:     p.StartTimestamp,
		EndTimestamp:       p.EndTimestamp,
	})
}

// handleAmpUpdateStopped collapses the window onto the stop timestamp and
// refreshes the cached amplification factor right away.
func (e *Engine) handleAmpUpdateStopped(ctx context.Context, ev *domain.Event) error {
	if err := e.store.SaveGradualAmpUpdate(ctx, &domain.GradualAmpUpdate{
		PoolID:             ev.PoolID,
		ScheduledTimestamp: ev.Block.Timestamp,
		StartTimestamp:     ev.Block.Timestamp,
		EndTimestamp:       ev.Block.Timestamp,
	}); err != nil {
		return err
	}

	pool, err := e.store.LoadPool(ctx, ev.PoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("amp update stop for unknown pool", zap.String("pool", ev.PoolID))
			return nil
		}
		return fmt.Errorf("load pool: %w", err)
	}
	if e.amps == nil {
		return nil
	}
	amp, err := e.amps.Amp(ctx, pool)
	if err != nil {
		e.log.Warn("amp refresh failed", zap.String("pool", ev.PoolID), zap.Error(err))
		return nil
	}
	pool.Amp = amp
	return e.store.SavePool(ctx, pool)
}

func (e *Engine) loadSwapConfigOrDrop(ctx context.Context, ev *domain.Event) (*domain.SwapConfig, error) {
	cfg, err := e.store.LoadSwapConfig(ctx, ev.PoolID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.log.Warn("parameter change for unknown pool",
				zap.String("kind", string(ev.Kind)), zap.String("pool", ev.PoolID))
			return nil, nil
		}
		return nil, fmt.Errorf("load swap config: %w", err)
	}
	return cfg, nil
}
