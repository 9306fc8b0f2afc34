package memory

import (
	"context"
	"fmt"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// MetricStore is an in-memory implementation of storage.MetricStore.
type MetricStore struct {
	mu               sync.RWMutex
	lifetimePool     map[string]*domain.LifetimePoolMetric
	dailyPool        map[string]*domain.DailyPoolMetric
	dailyPoolTokens  map[string]*domain.DailyPoolToken
	lifetimeVault    *domain.LifetimeVaultMetric
	dailyVault       map[int64]*domain.DailyVaultMetric
	dailyVaultTokens map[string]*domain.DailyVaultToken
}

// NewMetricStore creates a new in-memory metric store.
func NewMetricStore() *MetricStore {
	return &MetricStore{
		lifetimePool:     make(map[string]*domain.LifetimePoolMetric),
		dailyPool:        make(map[string]*domain.DailyPoolMetric),
		dailyPoolTokens:  make(map[string]*domain.DailyPoolToken),
		dailyVault:       make(map[int64]*domain.DailyVaultMetric),
		dailyVaultTokens: make(map[string]*domain.DailyVaultToken),
	}
}

func dayKey(id string, day int64) string {
	return fmt.Sprintf("%s|%d", id, day)
}

func (s *MetricStore) LoadLifetimePoolMetric(_ context.Context, poolID string) (*domain.LifetimePoolMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.lifetimePool[poolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MetricStore) SaveLifetimePoolMetric(_ context.Context, m *domain.LifetimePoolMetric) error {
	if m == nil || m.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.lifetimePool[m.PoolID] = &cp
	return nil
}

func (s *MetricStore) LoadDailyPoolMetric(_ context.Context, poolID string, day int64) (*domain.DailyPoolMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.dailyPool[dayKey(poolID, day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MetricStore) SaveDailyPoolMetric(_ context.Context, m *domain.DailyPoolMetric) error {
	if m == nil || m.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.dailyPool[dayKey(m.PoolID, m.Day)] = &cp
	return nil
}

func (s *MetricStore) LoadDailyPoolToken(_ context.Context, poolID, token string, day int64) (*domain.DailyPoolToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.dailyPoolTokens[dayKey(poolTokenKey(poolID, token), day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MetricStore) SaveDailyPoolToken(_ context.Context, m *domain.DailyPoolToken) error {
	if m == nil || m.PoolID == "" || m.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.dailyPoolTokens[dayKey(poolTokenKey(m.PoolID, m.Token), m.Day)] = &cp
	return nil
}

func (s *MetricStore) LoadLifetimeVaultMetric(_ context.Context) (*domain.LifetimeVaultMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lifetimeVault == nil {
		return nil, storage.ErrNotFound
	}
	cp := *s.lifetimeVault
	return &cp, nil
}

func (s *MetricStore) SaveLifetimeVaultMetric(_ context.Context, m *domain.LifetimeVaultMetric) error {
	if m == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.lifetimeVault = &cp
	return nil
}

func (s *MetricStore) LoadDailyVaultMetric(_ context.Context, day int64) (*domain.DailyVaultMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.dailyVault[day]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MetricStore) SaveDailyVaultMetric(_ context.Context, m *domain.DailyVaultMetric) error {
	if m == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.dailyVault[m.Day] = &cp
	return nil
}

func (s *MetricStore) LoadDailyVaultToken(_ context.Context, token string, day int64) (*domain.DailyVaultToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.dailyVaultTokens[dayKey(token, day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MetricStore) SaveDailyVaultToken(_ context.Context, m *domain.DailyVaultToken) error {
	if m == nil || m.Token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.dailyVaultTokens[dayKey(m.Token, m.Day)] = &cp
	return nil
}

var _ storage.MetricStore = (*MetricStore)(nil)
