// Package memory provides in-memory entity stores. Used by the replay binary
// and as the reference implementation in engine tests.
package memory

import "vault-analytics-lab/internal/storage"

// Store bundles every in-memory entity store behind storage.Store.
type Store struct {
	*PoolStore
	*TokenStore
	*PriceStore
	*MetricStore
	*UserStore
	*UpdateStore
	*TradeStore
}

// NewStore creates a fresh in-memory store bundle.
func NewStore() *Store {
	return &Store{
		PoolStore:   NewPoolStore(),
		TokenStore:  NewTokenStore(),
		PriceStore:  NewPriceStore(),
		MetricStore: NewMetricStore(),
		UserStore:   NewUserStore(),
		UpdateStore: NewUpdateStore(),
		TradeStore:  NewTradeStore(),
	}
}

var _ storage.Store = (*Store)(nil)
