package secrets

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/secret-greeter/internal/config"
	"github.com/iliyamo/secret-greeter/internal/metrics"
)

// Cache keeps fetched bundles for at most the configured staleness window.
// Failed fetches are never cached. Concurrent misses for the same name share
// one round-trip to the store; that round-trip is detached from any single
// caller's cancellation and bounded by fetchTimeout instead.
type Cache struct {
	lru          *expirable.LRU[string, Bundle]
	group        singleflight.Group
	fetchTimeout time.Duration
}

const defaultFetchTimeout = 10 * time.Second

// NewCache returns nil when cfg is disabled; a nil *Cache wraps nothing.
func NewCache(cfg config.SecretCacheConfig) *Cache {
	if !cfg.Enabled() {
		return nil
	}
	size := cfg.Size
	if size <= 0 {
		size = 16
	}
	return &Cache{
		lru:          expirable.NewLRU[string, Bundle](size, nil, cfg.TTL),
		fetchTimeout: defaultFetchTimeout,
	}
}

// Wrap returns a Store serving bundles for name from the cache.
func (c *Cache) Wrap(name string, s Store) Store {
	if c == nil {
		return s
	}
	return StoreFunc(func(ctx context.Context) (Bundle, error) {
		if b, ok := c.lru.Get(name); ok {
			metrics.SecretFetches.WithLabelValues(name, metrics.ResultCached).Inc()
			return b.Clone(), nil
		}
		ch := c.group.DoChan(name, func() (interface{}, error) {
			fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
			defer cancel()
			b, err := s.Fetch(fetchCtx)
			if err != nil {
				return nil, err
			}
			c.lru.Add(name, b.Clone())
			return b, nil
		})
		select {
		case <-ctx.Done():
			return nil, storeError(name, "wait for shared fetch", ctx.Err())
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Val.(Bundle).Clone(), nil
		}
	})
}

// Purge drops every cached bundle.
func (c *Cache) Purge() {
	if c != nil {
		c.lru.Purge()
	}
}
