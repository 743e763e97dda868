package ports

import (
	"errors"
	"time"
)

// ErrCacheMiss is returned by CachePort.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CachePort interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	// Incr increments key and sets ttl when the key is new. Returns the new value.
	Incr(key string, ttl time.Duration) (int64, error)
}
