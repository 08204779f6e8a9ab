package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const (
	redisKeyPrefix   = "storefront:"
	redisDialTimeout = 5 * time.Second
)

// Redis keeps documents under storefront:<origin>:<key> with no expiry.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// DialRedis connects and pings, closing the client if the ping fails.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	dialCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()

	if err := client.Ping(dialCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *Redis) redisKey(origin, key string) string {
	return redisKeyPrefix + origin + ":" + key
}

func (r *Redis) Get(ctx context.Context, origin, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.redisKey(origin, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (r *Redis) Set(ctx context.Context, origin, key string, value []byte) error {
	return r.client.Set(ctx, r.redisKey(origin, key), value, 0).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
