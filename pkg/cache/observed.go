package cache

import (
	"context"
	"time"

	"github.com/matzehuels/gridkit/pkg/observability"
)

// Observed wraps a Cache and reports hits, misses and writes to the
// registered observability.CacheHooks. The key type reported is the key
// prefix up to the first colon ("layout", "artifact", ...).
type Observed struct {
	Cache
}

// Observe wraps c with hook reporting.
func Observe(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return &Observed{Cache: c}
}

// Get retrieves a value and reports a hit or miss.
func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

// Set stores a value and reports its size.
func (o *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}
