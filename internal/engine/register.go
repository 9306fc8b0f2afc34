package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// handlePoolRegistered creates the pool, its tokens, its swap config and the
// lifetime metric record. Pools are created exactly once; a repeated
// registration is dropped.
func (e *Engine) handlePoolRegistered(ctx context.Context, ev *domain.Event) error {
	p := ev.PoolRegistered
	if p == nil {
		e.log.Warn("pool registration without params", zap.String("pool", ev.PoolID))
		return nil
	}

	if _, err := e.store.LoadPool(ctx, ev.PoolID); err == nil {
		e.log.Warn("pool already registered", zap.String("pool", ev.PoolID))
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load pool: %w", err)
	}

	pool := &domain.Pool{
		ID:          ev.PoolID,
		Address:     p.PoolAddress,
		Type:        p.PoolType,
		PhantomPool: p.PhantomPool,
		MainIndex:   p.MainIndex,
		Owner:       p.Owner,
	}
	for _, tok := range p.Tokens {
		pool.TokenAddresses = append(pool.TokenAddresses, tok.Address)
	}
	if err := e.store.SavePool(ctx, pool); err != nil {
		return fmt.Errorf("save pool: %w", err)
	}

	for i, tok := range p.Tokens {
		if err := e.ensureToken(ctx, tok); err != nil {
			return err
		}
		pt := &domain.PoolToken{
			PoolID:    ev.PoolID,
			Address:   tok.Address,
			PriceRate: decimal.NewFromInt(1),
		}
		if len(p.Weights) == len(p.Tokens) {
			pt.Weight = p.Weights[i]
		}
		if err := e.store.SavePoolToken(ctx, pt); err != nil {
			return fmt.Errorf("save pool token: %w", err)
		}
	}

	// The share token is transferable; register its metadata too.
	if err := e.ensureToken(ctx, domain.TokenInfo{
		Address:  p.PoolAddress,
		Decimals: domain.BPTDecimals,
	}); err != nil {
		return err
	}

	if err := e.store.SaveSwapConfig(ctx, &domain.SwapConfig{
		PoolID:      ev.PoolID,
		Fee:         p.SwapFee,
		SwapEnabled: true,
	}); err != nil {
		return fmt.Errorf("save swap config: %w", err)
	}

	if err := e.store.SaveLifetimePoolMetric(ctx, &domain.LifetimePoolMetric{
		PoolID:    ev.PoolID,
		StartTime: ev.Block.Timestamp,
	}); err != nil {
		return fmt.Errorf("save lifetime pool metric: %w", err)
	}

	e.log.Info("pool registered",
		zap.String("pool", ev.PoolID),
		zap.String("address", p.PoolAddress),
		zap.String("type", string(p.PoolType)),
		zap.Int("tokens", len(p.Tokens)))
	return nil
}

// ensureToken creates token metadata on first observation. Decimals never
// change once recorded.
func (e *Engine) ensureToken(ctx context.Context, info domain.TokenInfo) error {
	existing, err := e.store.LoadToken(ctx, info.Address)
	if err == nil {
		if existing.Decimals != info.Decimals {
			e.log.Warn("token decimals changed, keeping first observation",
				zap.String("token", info.Address),
				zap.Int32("stored", existing.Decimals),
				zap.Int32("event", info.Decimals))
		}
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load token: %w", err)
	}
	if err := e.store.SaveToken(ctx, &domain.Token{
		Address:  info.Address,
		Decimals: info.Decimals,
		Symbol:   info.Symbol,
		Name:     info.Name,
	}); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}
