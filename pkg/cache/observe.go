package cache

import (
	"context"
	"strings"
	"time"

	"github.com/inboxatlas/inboxatlas/pkg/observability"
)

// Observed wraps a cache so hits, misses, and writes report to the
// registered cache hooks. The key type is the key's prefix before the
// first ':' (e.g. "http", "diagram"), matching the Keyer formats.
func Observed(c Cache) Cache {
	return &observedCache{inner: c}
}

type observedCache struct {
	inner Cache
}

func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "raw"
}

func (o *observedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.inner.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (o *observedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (o *observedCache) Delete(ctx context.Context, key string) error {
	return o.inner.Delete(ctx, key)
}

func (o *observedCache) Close() error {
	return o.inner.Close()
}

// Ensure observedCache implements Cache.
var _ Cache = (*observedCache)(nil)
