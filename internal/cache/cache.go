package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
	Close() error
}

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")

// RoutingKey is the cache key for a ward's responsible-team lookup
func RoutingKey(wardID string) string {
	return "routing:ward:" + wardID
}

// RoutingPattern matches all routing keys, for bulk invalidation after
// assignment writes
func RoutingPattern() string {
	return "routing:ward:*"
}
