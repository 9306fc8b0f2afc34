package memory

import (
	"context"
	"fmt"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu            sync.RWMutex
	shares        map[string]*domain.PoolShares
	lifetime      map[string]*domain.LifetimeUserMetric
	daily         map[string]*domain.DailyUserMetric
	dailyUserPool map[string]*domain.DailyUserPoolMetric
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		shares:        make(map[string]*domain.PoolShares),
		lifetime:      make(map[string]*domain.LifetimeUserMetric),
		daily:         make(map[string]*domain.DailyUserMetric),
		dailyUserPool: make(map[string]*domain.DailyUserPoolMetric),
	}
}

func sharesKey(poolID, user string) string {
	return fmt.Sprintf("%s|%s", poolID, user)
}

func (s *UserStore) LoadPoolShares(_ context.Context, poolID, user string) (*domain.PoolShares, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, ok := s.shares[sharesKey(poolID, user)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *ps
	return &cp, nil
}

func (s *UserStore) SavePoolShares(_ context.Context, ps *domain.PoolShares) error {
	if ps == nil || ps.PoolID == "" || ps.User == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *ps
	s.shares[sharesKey(ps.PoolID, ps.User)] = &cp
	return nil
}

func (s *UserStore) LoadLifetimeUserMetric(_ context.Context, user string) (*domain.LifetimeUserMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.lifetime[user]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *UserStore) SaveLifetimeUserMetric(_ context.Context, m *domain.LifetimeUserMetric) error {
	if m == nil || m.User == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.lifetime[m.User] = &cp
	return nil
}

func (s *UserStore) LoadDailyUserMetric(_ context.Context, user string, day int64) (*domain.DailyUserMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.daily[dayKey(user, day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *UserStore) SaveDailyUserMetric(_ context.Context, m *domain.DailyUserMetric) error {
	if m == nil || m.User == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.daily[dayKey(m.User, m.Day)] = &cp
	return nil
}

func (s *UserStore) LoadDailyUserPoolMetric(_ context.Context, user, poolID string, day int64) (*domain.DailyUserPoolMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.dailyUserPool[dayKey(sharesKey(poolID, user), day)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *UserStore) SaveDailyUserPoolMetric(_ context.Context, m *domain.DailyUserPoolMetric) error {
	if m == nil || m.User == "" || m.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.dailyUserPool[dayKey(sharesKey(m.PoolID, m.User), m.Day)] = &cp
	return nil
}

var _ storage.UserStore = (*UserStore)(nil)
