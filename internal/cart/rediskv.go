package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session carts on the HTTP surface are kept this long past the last write.
const sessionTTL = 30 * 24 * time.Hour

// RedisKV is the durable store for browser sessions: one redis key per
// session and logical key. It satisfies the same contract as FileKV, so the
// cart engine does not care which one it runs on.
type RedisKV struct {
	client  *redis.Client
	session string
}

func NewRedisKV(client *redis.Client, sessionID string) *RedisKV {
	return &RedisKV{client: client, session: sessionID}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyMissing
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisKV) key(key string) string {
	return "session:" + r.session + ":" + key
}
