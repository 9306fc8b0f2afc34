package memory

import (
	"context"
	"fmt"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// PriceStore is an in-memory implementation of storage.PriceStore.
type PriceStore struct {
	mu     sync.RWMutex
	prices map[string]*domain.TokenPrice // directional (token, pricingAsset) key
	latest map[string]*domain.LatestTokenPrice
	hourly map[string]*domain.HourlyTokenPrice
}

// NewPriceStore creates a new in-memory price store.
func NewPriceStore() *PriceStore {
	return &PriceStore{
		prices: make(map[string]*domain.TokenPrice),
		latest: make(map[string]*domain.LatestTokenPrice),
		hourly: make(map[string]*domain.HourlyTokenPrice),
	}
}

func priceKey(token, pricingAsset string) string {
	return fmt.Sprintf("%s|%s", token, pricingAsset)
}

func hourlyKey(token string, hour int64) string {
	return fmt.Sprintf("%s|%d", token, hour)
}

// LoadTokenPrice retrieves the last observed rate of token in pricingAsset.
// Absence means no trade between the pair has been seen yet.
func (s *PriceStore) LoadTokenPrice(_ context.Context, token, pricingAsset string) (*domain.TokenPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tp, ok := s.prices[priceKey(token, pricingAsset)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *tp
	return &cp, nil
}

// SaveTokenPrice upserts a token price.
func (s *PriceStore) SaveTokenPrice(_ context.Context, tp *domain.TokenPrice) error {
	if tp == nil || tp.Token == "" || tp.PricingAsset == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tp
	s.prices[priceKey(tp.Token, tp.PricingAsset)] = &cp
	return nil
}

// LoadLatestTokenPrice retrieves the per-token USD price singleton.
func (s *PriceStore) LoadLatestTokenPrice(_ context.Context, token string) (*domain.LatestTokenPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lp, ok := s.latest[token]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *lp
	return &cp, nil
}

// SaveLatestTokenPrice upserts the singleton.
func (s *PriceStore) SaveLatestTokenPrice(_ context.Context, lp *domain.LatestTokenPrice) error {
	if lp == nil || lp.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *lp
	s.latest[lp.Token] = &cp
	return nil
}

// LoadHourlyTokenPrice retrieves a (token, hour) summary.
func (s *PriceStore) LoadHourlyTokenPrice(_ context.Context, token string, hour int64) (*domain.HourlyTokenPrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hp, ok := s.hourly[hourlyKey(token, hour)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *hp
	return &cp, nil
}

// SaveHourlyTokenPrice upserts an hourly summary.
func (s *PriceStore) SaveHourlyTokenPrice(_ context.Context, hp *domain.HourlyTokenPrice) error {
	if hp == nil || hp.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *hp
	s.hourly[hourlyKey(hp.Token, hp.Hour)] = &cp
	return nil
}

var _ storage.PriceStore = (*PriceStore)(nil)
