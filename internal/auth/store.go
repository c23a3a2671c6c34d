package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps live sessions in Redis. A token whose session ID is
// missing from the store is treated as logged out, whatever its
// signature says.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a session store with the given lifetime.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Save records a live session for the user.
func (s *SessionStore) Save(ctx context.Context, sessionID string, userID int64) error {
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err()
}

// Alive reports whether the session has not been revoked or expired.
func (s *SessionStore) Alive(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return n > 0, nil
}

// Delete revokes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
