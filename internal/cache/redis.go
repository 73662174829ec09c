package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a single redis.Client. Keys are namespaced
// "prefix:key" so DeletePrefix can SCAN by prefix without a separate
// index structure.
type Redis struct {
	client *redis.Client
}

// NewRedis dials addr (host:port) and pings it once so a misconfigured
// endpoint fails fast at startup instead of on the first cache miss.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %q: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

func redisKey(prefix, key string) string {
	return prefix + ":" + key
}

func (r *Redis) Get(ctx context.Context, prefix, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, redisKey(prefix, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, redisKey(prefix, key), value, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, prefix, key string) error {
	return r.client.Del(ctx, redisKey(prefix, key)).Err()
}

// DeletePrefix scans for "prefix:*" keys and deletes them in batches.
// SCAN rather than KEYS, since this runs against a shared production
// instance and must not block it.
func (r *Redis) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := prefix + ":*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 100 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
