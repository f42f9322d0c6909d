package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"

	sessionKeyPrefix = "session:"
)

// SessionStore keeps sessionID -> email in Redis. Entries expire after
// SessionTTL; nothing refreshes them.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(sessionID string) string { return sessionKeyPrefix + sessionID }

// Create opens a session for email and returns its id.
func (s *SessionStore) Create(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", errors.New("session: empty email")
	}
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(sid), email, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("session: create: %w", err)
	}
	return sid, nil
}

// Get returns the session's email, or "" when the session is unknown or
// expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", nil
	}
	email, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("session: get: %w", err)
	}
	return email, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}
