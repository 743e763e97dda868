package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sm8ta/auth_microservice/internal/core/ports"
)

type RedisAdapter struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisAdapter(client *redis.Client) ports.CachePort {
	return &RedisAdapter{
		client: client,
		ctx:    context.Background(),
	}
}

func (r *RedisAdapter) Get(key string) ([]byte, error) {
	result, err := r.client.Get(r.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *RedisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

func (r *RedisAdapter) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Incr increments key and sets its ttl in one transaction. EXPIRE NX runs on
// every hit, so a key that lost its ttl gets one back on the next increment.
func (r *RedisAdapter) Incr(key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(r.ctx, key)
		pipe.ExpireNX(r.ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

var _ ports.CachePort = (*RedisAdapter)(nil)

// NoopAdapter stands in for Redis when no address is configured:
// every lookup misses and counters never advance.
type NoopAdapter struct{}

func NewNoopAdapter() ports.CachePort {
	return NoopAdapter{}
}

func (NoopAdapter) Get(string) ([]byte, error)                { return nil, ports.ErrCacheMiss }
func (NoopAdapter) Set(string, []byte, time.Duration) error   { return nil }
func (NoopAdapter) Delete(string) error                       { return nil }
func (NoopAdapter) Incr(string, time.Duration) (int64, error) { return 0, nil }

var _ ports.CachePort = NoopAdapter{}
