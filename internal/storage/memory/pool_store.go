package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu          sync.RWMutex
	pools       map[string]*domain.Pool // keyed by pool id
	byAddress   map[string]string       // pool address -> pool id
	poolTokens  map[string]*domain.PoolToken
	swapConfigs map[string]*domain.SwapConfig
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{
		pools:       make(map[string]*domain.Pool),
		byAddress:   make(map[string]string),
		poolTokens:  make(map[string]*domain.PoolToken),
		swapConfigs: make(map[string]*domain.SwapConfig),
	}
}

func poolTokenKey(poolID, token string) string {
	return fmt.Sprintf("%s|%s", poolID, token)
}

// LoadPool retrieves a pool by id. Returns ErrNotFound if it does not exist.
func (s *PoolStore) LoadPool(_ context.Context, poolID string) (*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.pools[poolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	cp.TokenAddresses = append([]string(nil), p.TokenAddresses...)
	return &cp, nil
}

// LoadPoolByAddress retrieves a pool by its contract address.
func (s *PoolStore) LoadPoolByAddress(ctx context.Context, address string) (*domain.Pool, error) {
	s.mu.RLock()
	id, ok := s.byAddress[address]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.LoadPool(ctx, id)
}

// SavePool upserts a pool.
func (s *PoolStore) SavePool(_ context.Context, p *domain.Pool) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.TokenAddresses = append([]string(nil), p.TokenAddresses...)
	s.pools[p.ID] = &cp
	s.byAddress[p.Address] = p.ID
	return nil
}

// ListPools retrieves every registered pool ordered by id.
func (s *PoolStore) ListPools(_ context.Context) ([]*domain.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Pool, 0, len(s.pools))
	for _, p := range s.pools {
		cp := *p
		cp.TokenAddresses = append([]string(nil), p.TokenAddresses...)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IsPoolAddress reports whether the address belongs to a registered pool.
func (s *PoolStore) IsPoolAddress(_ context.Context, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byAddress[address]
	return ok, nil
}

// LoadPoolToken retrieves one (pool, token) record.
func (s *PoolStore) LoadPoolToken(_ context.Context, poolID, token string) (*domain.PoolToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pt, ok := s.poolTokens[poolTokenKey(poolID, token)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *pt
	return &cp, nil
}

// SavePoolToken upserts a pool token.
func (s *PoolStore) SavePoolToken(_ context.Context, pt *domain.PoolToken) error {
	if pt == nil || pt.PoolID == "" || pt.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *pt
	s.poolTokens[poolTokenKey(pt.PoolID, pt.Address)] = &cp
	return nil
}

// LoadSwapConfig retrieves a pool's trading parameters.
func (s *PoolStore) LoadSwapConfig(_ context.Context, poolID string) (*domain.SwapConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.swapConfigs[poolID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// SaveSwapConfig upserts a swap config.
func (s *PoolStore) SaveSwapConfig(_ context.Context, c *domain.SwapConfig) error {
	if c == nil || c.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.swapConfigs[c.PoolID] = &cp
	return nil
}

var _ storage.PoolStore = (*PoolStore)(nil)
