package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupeKeyPrefix = "dedupe"

// RedisDeduper remembers the idempotency keys of applied board commands.
// Keys live at boardID:dedupe:key and expire after ttl, so a client retrying a
// batch within that window does not replay a command.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper returns a deduper whose keys expire after ttl.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

func (r *RedisDeduper) key(boardID, key string) string {
	return fmt.Sprintf("%s:%s:%s", boardID, dedupeKeyPrefix, key)
}

// Add claims key for boardID and reports whether this call claimed it first.
func (r *RedisDeduper) Add(ctx context.Context, boardID, key string) (bool, error) {
	return r.client.SetNX(ctx, r.key(boardID, key), 1, r.ttl).Result()
}

// Remove releases a claimed key so a command that failed to apply can be
// retried.
func (r *RedisDeduper) Remove(ctx context.Context, boardID, key string) error {
	return r.client.Del(ctx, r.key(boardID, key)).Err()
}

// AddMany claims a whole batch in one pipeline. results[i] is true when keys[i]
// was claimed by this call. On error the slice still holds the claims made
// before the failure so the handler can release them.
func (r *RedisDeduper) AddMany(ctx context.Context, boardID string, keys []string) ([]bool, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	results := make([]bool, len(keys))
	cmds, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.SetNX(ctx, r.key(boardID, key), 1, r.ttl)
		}
		return nil
	})
	if err != nil {
		return results, err
	}
	if len(cmds) != len(keys) {
		return results, fmt.Errorf("deduper pipeline mismatch: expected %d results, got %d", len(keys), len(cmds))
	}
	for i, cmd := range cmds {
		boolCmd, ok := cmd.(*redis.BoolCmd)
		if !ok {
			return results, fmt.Errorf("unexpected redis response type %T", cmd)
		}
		val, cmdErr := boolCmd.Result()
		if cmdErr != nil {
			return results, cmdErr
		}
		results[i] = val
	}
	return results, nil
}
