package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shoplytics/internal/domain"
	"shoplytics/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements SessionStore on Redis. Sessions expire via
// Redis TTL derived from the session's ExpiresAt.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis session store
func NewRedisSessionStore(client *redis.Client) ports.SessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

// Create persists a session under its token with a TTL
func (s *RedisSessionStore) Create(ctx context.Context, session *domain.DashboardSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	if err := s.client.Set(ctx, sessionKey(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get retrieves a session by token, returning (nil, nil) when absent
func (s *RedisSessionStore) Get(ctx context.Context, token string) (*domain.DashboardSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.DashboardSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Delete removes a session by token
func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
