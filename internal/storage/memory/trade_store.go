package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu    sync.RWMutex
	swaps []*domain.SwapRecord
	joins []*domain.JoinRecord
	exits []*domain.ExitRecord
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{}
}

func (s *TradeStore) SaveSwapRecord(_ context.Context, r *domain.SwapRecord) error {
	if r == nil || r.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.swaps = append(s.swaps, &cp)
	return nil
}

func (s *TradeStore) SaveJoinRecord(_ context.Context, r *domain.JoinRecord) error {
	if r == nil || r.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	cp.Amounts = append([]decimal.Decimal(nil), r.Amounts...)
	s.joins = append(s.joins, &cp)
	return nil
}

func (s *TradeStore) SaveExitRecord(_ context.Context, r *domain.ExitRecord) error {
	if r == nil || r.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	cp.Amounts = append([]decimal.Decimal(nil), r.Amounts...)
	s.exits = append(s.exits, &cp)
	return nil
}

// SwapRecordsByPool retrieves swaps for a pool ordered by (timestamp, logIndex).
func (s *TradeStore) SwapRecordsByPool(_ context.Context, poolID string) ([]*domain.SwapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapRecord
	for _, r := range s.swaps {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

// JoinRecordsByPool retrieves joins for a pool ordered by (timestamp, logIndex).
func (s *TradeStore) JoinRecordsByPool(_ context.Context, poolID string) ([]*domain.JoinRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.JoinRecord
	for _, r := range s.joins {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

// ExitRecordsByPool retrieves exits for a pool ordered by (timestamp, logIndex).
func (s *TradeStore) ExitRecordsByPool(_ context.Context, poolID string) ([]*domain.ExitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ExitRecord
	for _, r := range s.exits {
		if r.PoolID == poolID {
			cp := *r
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp < result[j].Timestamp
		}
		return result[i].LogIndex < result[j].LogIndex
	})
	return result, nil
}

var _ storage.TradeStore = (*TradeStore)(nil)
