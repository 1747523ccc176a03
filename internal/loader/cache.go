package loader

import (
	"context"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Cache layer names reported to LookupFunc.
const (
	LayerLRU   = "lru"
	LayerRedis = "redis"
)

// LookupFunc observes cache lookups.
type LookupFunc func(layer string, hit bool)

// CachedLoader keeps recently loaded series in a size-bounded LRU with a TTL.
// Concurrent misses for the same key share one upstream load.
type CachedLoader struct {
	next  Loader
	cache *expirable.LRU[string, analytics.Series]
	group singleflight.Group

	// OnLookup, when set, is called after every lookup.
	OnLookup LookupFunc
}

// NewCachedLoader wraps next with an LRU of size entries living for ttl.
func NewCachedLoader(next Loader, size int, ttl time.Duration) *CachedLoader {
	return &CachedLoader{
		next:  next,
		cache: expirable.NewLRU[string, analytics.Series](size, nil, ttl),
	}
}

func cacheKey(service string, start, end time.Time) string {
	return service + "|" + analytics.Day(start).Format(analytics.DateLayout) + "|" + analytics.Day(end).Format(analytics.DateLayout)
}

// LoadDailyCosts implements Loader.
func (c *CachedLoader) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	key := cacheKey(service, start, end)
	if s, ok := c.cache.Get(key); ok {
		c.observe(true)
		return s, nil
	}
	c.observe(false)

	// The shared load outlives any single caller; WithTimeout below bounds it.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		s, err := c.next.LoadDailyCosts(shared, service, start, end)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, s)
		return s, nil
	})

	select {
	case <-ctx.Done():
		return analytics.Series{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return analytics.Series{}, res.Err
		}
		return res.Val.(analytics.Series), nil
	}
}

func (c *CachedLoader) observe(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(LayerLRU, hit)
	}
}
