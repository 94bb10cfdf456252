package data_access

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-catalog-backend/models"
)

// TokenCache remembers which user a token resolved to.
type TokenCache interface {
	Lookup(ctx context.Context, token string) (models.ID, bool, error)
	Remember(ctx context.Context, token string, userID models.ID) error
}

type RedisTokenCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisTokenCache(client *redis.Client, ttl time.Duration) *RedisTokenCache {
	return &RedisTokenCache{
		client: client,
		ttl:    ttl,
		prefix: "token:",
	}
}

// ConnectRedis creates a client for addr and checks it with PING.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisTokenCache) Lookup(ctx context.Context, token string) (models.ID, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.ID(val), true, nil
}

func (c *RedisTokenCache) Remember(ctx context.Context, token string, userID models.ID) error {
	return c.client.Set(ctx, c.prefix+token, string(userID), c.ttl).Err()
}
