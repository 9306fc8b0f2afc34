package memory

import (
	"context"
	"sync"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu          sync.RWMutex
	tokens      map[string]*domain.Token
	vaultTokens map[string]*domain.VaultToken
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens:      make(map[string]*domain.Token),
		vaultTokens: make(map[string]*domain.VaultToken),
	}
}

// LoadToken retrieves token metadata by address.
func (s *TokenStore) LoadToken(_ context.Context, address string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[address]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// SaveToken upserts token metadata.
func (s *TokenStore) SaveToken(_ context.Context, t *domain.Token) error {
	if t == nil || t.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.tokens[t.Address] = &cp
	return nil
}

// LoadVaultToken retrieves a vault-wide token balance record.
func (s *TokenStore) LoadVaultToken(_ context.Context, address string) (*domain.VaultToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vt, ok := s.vaultTokens[address]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *vt
	return &cp, nil
}

// SaveVaultToken upserts a vault token.
func (s *TokenStore) SaveVaultToken(_ context.Context, vt *domain.VaultToken) error {
	if vt == nil || vt.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *vt
	s.vaultTokens[vt.Address] = &cp
	return nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
