package quotes

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/aporte/internal/metrics"
)

// CachedProvider keeps prices from an inner provider for a fixed TTL.
type CachedProvider struct {
	inner   Provider
	cache   *cache.Cache
	metrics *metrics.Metrics
}

// NewCachedProvider wraps inner. A non-positive ttl disables caching.
func NewCachedProvider(inner Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		return inner
	}
	return &CachedProvider{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: metrics.Get(),
	}
}

func (c *CachedProvider) Fetch(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	var missing []string
	for _, id := range dedupe(ids) {
		if v, ok := c.cache.Get(id); ok {
			prices[id] = v.(decimal.Decimal)
			c.metrics.RecordCacheLookup(true)
			continue
		}
		c.metrics.RecordCacheLookup(false)
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return prices, nil
	}

	fetched, err := c.inner.Fetch(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, price := range fetched {
		c.cache.Set(id, price, cache.DefaultExpiration)
		prices[id] = price
	}

	return prices, nil
}
