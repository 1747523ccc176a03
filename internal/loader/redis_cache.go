package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/costwatch/costwatch/internal/analytics"
	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares loaded series between instances. Entries are
// snappy-compressed JSON. Redis failures never fail a load: the cache is
// bypassed and OnError is told.
type RedisCache struct {
	client *redis.Client
	next   Loader
	ttl    time.Duration
	prefix string

	// OnLookup, when set, is called after every successful lookup.
	OnLookup LookupFunc
	// OnError, when set, receives Redis errors.
	OnError func(error)
}

// NewRedisClient builds a client from a redis:// URL, falling back to a
// plain host:port address.
func NewRedisClient(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		opts = &redis.Options{Addr: url}
	}
	return redis.NewClient(opts)
}

// NewRedisCache wraps next with a Redis cache.
func NewRedisCache(client *redis.Client, next Loader, ttl time.Duration, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "costwatch:series"
	}
	return &RedisCache{client: client, next: next, ttl: ttl, prefix: prefix}
}

func (c *RedisCache) key(service string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s", c.prefix, cacheKey(service, start, end))
}

// LoadDailyCosts implements Loader.
func (c *RedisCache) LoadDailyCosts(ctx context.Context, service string, start, end time.Time) (analytics.Series, error) {
	key := c.key(service, start, end)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		s, derr := decodeSeries(raw)
		if derr == nil {
			c.observe(true)
			return s, nil
		}
		c.report(fmt.Errorf("decode %s: %w", key, derr))
	case errors.Is(err, redis.Nil):
		c.observe(false)
	default:
		c.report(err)
	}

	s, err := c.next.LoadDailyCosts(ctx, service, start, end)
	if err != nil {
		return analytics.Series{}, err
	}

	encoded, err := encodeSeries(s)
	if err != nil {
		c.report(err)
		return s, nil
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.report(err)
	}
	return s, nil
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) observe(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(LayerRedis, hit)
	}
}

func (c *RedisCache) report(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

func encodeSeries(s analytics.Series) ([]byte, error) {
	data, err := json.Marshal(s.Points())
	if err != nil {
		return nil, fmt.Errorf("encode series: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

func decodeSeries(raw []byte) (analytics.Series, error) {
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return analytics.Series{}, fmt.Errorf("snappy decompress failed: %w", err)
	}
	var points []analytics.CostPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return analytics.Series{}, err
	}
	return analytics.NewSeries(points)
}
