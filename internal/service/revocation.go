package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRevoker keeps revoked token ids in Redis with a TTL matching the
// token's remaining lifetime.
type RedisRevoker struct {
	client redis.Cmdable
	prefix string
}

// NewRedisRevoker creates a revoker storing keys under "<prefix>:<jti>".
func NewRedisRevoker(client redis.Cmdable, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "revoked_token"
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

func (r *RedisRevoker) key(tokenID string) string {
	return r.prefix + ":" + tokenID
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(tokenID), 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, r.key(tokenID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
