// Package engine applies normalized ledger events to the entity stores: it
// classifies each event, values it in USD and folds it into the lifetime and
// daily metric records.
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vault-analytics-lab/internal/config"
	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/pricing"
	"vault-analytics-lab/internal/storage"
)

// WeightProvider refreshes a weighted pool's cached normalized weights from
// source. The returned slice aligns with the pool's token list.
type WeightProvider interface {
	NormalizedWeights(ctx context.Context, pool *domain.Pool) ([]decimal.Decimal, error)
}

// AmpProvider refreshes a stable-like pool's amplification parameter.
type AmpProvider interface {
	Amp(ctx context.Context, pool *domain.Pool) (decimal.Decimal, error)
}

// Engine is the single-threaded event processor. Events must be fed in ledger
// order; regressions in (block, logIndex) are dropped with a warning.
type Engine struct {
	store    storage.Store
	assets   *pricing.Assets
	resolver *pricing.Resolver
	valuator *pricing.Valuator
	weights  WeightProvider
	amps     AmpProvider
	minLiq   decimal.Decimal
	log      *zap.Logger

	lastBlock    uint64
	lastLogIndex uint
	seen         bool
}

// New wires the engine. weights and amps may be nil when no refresh source is
// available; the refresh gate then leaves cached values untouched.
func New(store storage.Store, cfg config.Config, weights WeightProvider, amps AmpProvider, log *zap.Logger) *Engine {
	assets := pricing.NewAssets(cfg)
	resolver := pricing.NewResolver(assets, store, store, cfg.MaxPricingDepth)
	return &Engine{
		store:    store,
		assets:   assets,
		resolver: resolver,
		valuator: pricing.NewValuator(store, assets, resolver, log),
		weights:  weights,
		amps:     amps,
		minLiq:   cfg.MinViableLiquidity,
		log:      log,
	}
}

// Process applies one event to completion. A nil error means the event was
// either applied or deliberately dropped; errors are reserved for store
// failures, which leave the stream position unadvanced.
func (e *Engine) Process(ctx context.Context, ev *domain.Event) error {
	if e.seen {
		if ev.Block.Number < e.lastBlock ||
			(ev.Block.Number == e.lastBlock && ev.LogIndex <= e.lastLogIndex) {
			e.log.Warn("dropping out-of-order event",
				zap.String("kind", string(ev.Kind)),
				zap.Uint64("block", ev.Block.Number),
				zap.Uint("log_index", ev.LogIndex),
				zap.Uint64("last_block", e.lastBlock),
				zap.Uint("last_log_index", e.lastLogIndex))
			return nil
		}
	}

	var err error
	switch ev.Kind {
	case domain.EventPoolRegistered:
		err = e.handlePoolRegistered(ctx, ev)
	case domain.EventSwap:
		err = e.handleSwap(ctx, ev)
	case domain.EventBalanceChanged:
		err = e.handleBalanceChanged(ctx, ev)
	case domain.EventTransfer:
		err = e.handleTransfer(ctx, ev)
	case domain.EventWeightUpdateScheduled:
		err = e.handleWeightUpdateScheduled(ctx, ev)
	case domain.EventAmpUpdateStarted:
		err = e.handleAmpUpdateStarted(ctx, ev)
	case domain.EventAmpUpdateStopped:
		err = e.handleAmpUpdateStopped(ctx, ev)
	case domain.EventFeeChanged:
		err = e.handleFeeChanged(ctx, ev)
	case domain.EventSwapEnabledSet:
		err = e.handleSwapEnabledSet(ctx, ev)
	case domain.EventManagementFeeChanged:
		err = e.handleManagementFeeChanged(ctx, ev)
	default:
		e.log.Warn("dropping event of unknown kind", zap.String("kind", string(ev.Kind)))
	}
	if err != nil {
		return fmt.Errorf("process %s at block %d log %d: %w", ev.Kind, ev.Block.Number, ev.LogIndex, err)
	}

	e.lastBlock = ev.Block.Number
	e.lastLogIndex = ev.LogIndex
	e.seen = true
	return nil
}
