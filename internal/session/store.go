// Package session implements the server-side authentication session store.
// The cookie transmitted to clients carries only an opaque random id; the
// user association lives in the store and expires with the session TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store persists the session id → user association.
type Store interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	Resolve(ctx context.Context, id string) (int64, error)
	Destroy(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis under "sess:<id>" keys.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Create issues a new opaque session id bound to the user for the given TTL.
func (s *RedisStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, key(id), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve returns the user id bound to the session id.
func (s *RedisStore) Resolve(ctx context.Context, id string) (int64, error) {
	raw, err := s.client.Get(ctx, key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("resolve session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func key(id string) string {
	return "sess:" + id
}

func generateID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
