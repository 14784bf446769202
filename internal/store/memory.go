package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a presented token was never issued.
var ErrNotFound = errors.New("token not found")

// MemoryStore holds the access and refresh token tables, mapping each
// token to its issue time. Entries are insertion-only for the lifetime
// of the process; expiry is decided by the caller from the issue time.
// Suitable for single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	access  map[string]time.Time
	refresh map[string]time.Time
}

// New creates an empty token store.
func New() *MemoryStore {
	return &MemoryStore{
		access:  make(map[string]time.Time),
		refresh: make(map[string]time.Time),
	}
}

// SaveTokenPair records an access/refresh pair with its issue time.
// Both entries become visible atomically, so a client can never observe
// a token that is not yet committed.
func (s *MemoryStore) SaveTokenPair(
	ctx context.Context,
	accessToken, refreshToken string,
	issuedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access[accessToken] = issuedAt
	s.refresh[refreshToken] = issuedAt
	return nil
}

// AccessTokenIssuedAt returns the issue time of an access token.
func (s *MemoryStore) AccessTokenIssuedAt(
	ctx context.Context,
	token string,
) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issuedAt, exists := s.access[token]
	if !exists {
		return time.Time{}, ErrNotFound
	}
	return issuedAt, nil
}

// RefreshTokenIssuedAt returns the issue time of a refresh token.
func (s *MemoryStore) RefreshTokenIssuedAt(
	ctx context.Context,
	token string,
) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issuedAt, exists := s.refresh[token]
	if !exists {
		return time.Time{}, ErrNotFound
	}
	return issuedAt, nil
}

// AccessTokenCount returns the number of access tokens ever issued.
func (s *MemoryStore) AccessTokenCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.access)
}

// RefreshTokenCount returns the number of refresh tokens ever issued.
func (s *MemoryStore) RefreshTokenCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.refresh)
}
