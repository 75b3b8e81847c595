package localstore

import (
	"context"
	"sync"

	apperrors "shopkeep/pkg/errors"
)

// TokenStore is an in-memory stand-in for the device key-value store; the
// pipeline only ever reads the bearer credential from it.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

func (s *TokenStore) BearerToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", apperrors.Unauthorized("No bearer token available", nil)
	}
	return s.token, nil
}

func (s *TokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}
