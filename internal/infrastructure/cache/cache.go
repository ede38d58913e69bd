package cache

import (
	"context"
	"time"
)

// Locker is a best-effort mutual exclusion keyed by name
type Locker interface {
	// Acquire takes key for ttl; false means someone else holds it
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)

	// Release frees key if token still owns it
	Release(ctx context.Context, key, token string) error
}

var (
	_ Locker = (*MemoryStore)(nil)
	_ Locker = (*RedisStore)(nil)
)
