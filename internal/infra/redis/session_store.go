package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps auth sessions (token -> username) in Redis so that
// /check-auth holds up across instances. Keys expire with the session TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Put registers or refreshes a session token.
func (s *SessionStore) Put(ctx context.Context, token, username string) error {
	return s.client.Set(ctx, s.key(token), username, s.ttl).Err()
}

// Lookup resolves a token to a username.
func (s *SessionStore) Lookup(ctx context.Context, token string) (string, bool, error) {
	username, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return username, true, nil
}

// Delete removes a session (logout).
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	return "calibration:session:" + token
}
