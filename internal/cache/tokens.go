package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned when a refresh token is absent from the store.
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenStore maps refresh-token values to user IDs. Presence in the store
// is what makes a refresh token valid; logout deletes the entry.
type TokenStore interface {
	Set(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, token string) (uint, error)
	Delete(ctx context.Context, token string) error
}

// RedisTokenStore is the production TokenStore.
type RedisTokenStore struct {
	rdb *redis.Client
}

// NewRedisTokenStore returns a TokenStore over the given client.
func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb}
}

func (s *RedisTokenStore) Set(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, RefreshTokenKey(token), strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (uint, error) {
	val, err := s.rdb.Get(ctx, RefreshTokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(userID), nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, RefreshTokenKey(token)).Err()
}
