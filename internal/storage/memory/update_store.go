package memory

import (
	"context"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// UpdateStore is an in-memory implementation of storage.UpdateStore.
type UpdateStore struct {
	mu      sync.RWMutex
	weights map[string]*domain.GradualWeightUpdate
	amps    map[string]*domain.GradualAmpUpdate
}

// NewUpdateStore creates a new in-memory update store.
func NewUpdateStore() *UpdateStore {
	return &UpdateStore{
		weights: make(map[string]*domain.GradualWeightUpdate),
		amps:    make(map[string]*domain.GradualAmpUpdate),
	}
}

func (s *UpdateStore) LoadGradualWeightUpdate(_ context.Context, poolID string) (*domain.GradualWeightUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.weights[poolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UpdateStore) SaveGradualWeightUpdate(_ context.Context, u *domain.GradualWeightUpdate) error {
	if u == nil || u.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.weights[u.PoolID] = &cp
	return nil
}

func (s *UpdateStore) LoadGradualAmpUpdate(_ context.Context, poolID string) (*domain.GradualAmpUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.amps[poolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UpdateStore) SaveGradualAmpUpdate(_ context.Context, u *domain.GradualAmpUpdate) error {
	if u == nil || u.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *u
	s.amps[u.PoolID] = &cp
	return nil
}

var _ storage.UpdateStore = (*UpdateStore)(nil)
