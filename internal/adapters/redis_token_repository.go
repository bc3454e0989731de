package adapters

import (
	"context"
	"time"

	"github.com/go-redis/redis"
)

const revokedTokenPrefix = "revoked:"

// RedisTokenRepository keeps the revoked-token blacklist. Entries expire with
// the token lifetime, so the set never outlives the tokens it blocks.
type RedisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

func (r *RedisTokenRepository) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	exists, err := r.client.Exists(revokedTokenPrefix + tokenHash).Result()
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (r *RedisTokenRepository) Revoke(_ context.Context, tokenHash string, expiration time.Duration) error {
	return r.client.Set(revokedTokenPrefix+tokenHash, "1", expiration).Err()
}
