package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"menu-planner/domain"
)

// RedisStore keeps drafts in Redis only. It is used when no table storage is
// configured.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveDraft(ctx context.Context, key string, payload []byte) error {
	return s.client.Set(ctx, key, payload, 0).Err()
}

func (s *RedisStore) LoadDraft(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrDraftNotFound
	}
	return data, err
}
