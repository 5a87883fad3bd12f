package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemorySessions is a session-token store for deployments where identity
// lives in the same process (development, tests, single-node setups).
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]string // token -> userID
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]string),
	}
}

// Issue creates a new opaque session token for the user.
func (s *MemorySessions) Issue(userID string) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
	return token
}

// Seed registers a fixed token, used to wire pre-shared dev credentials.
func (s *MemorySessions) Seed(token, userID string) {
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
}

func (s *MemorySessions) Resolve(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Revoke invalidates a session token.
func (s *MemorySessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
