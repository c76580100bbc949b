package quote

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedFetcher wraps a Fetcher with a short-TTL Redis cache so bursts
// of requests for the same candidate hit the upstream API once. Cache
// failures degrade to the inner fetcher, never to an error.
type CachedFetcher struct {
	inner Fetcher
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedFetcher wraps fetcher with a Redis quote cache.
func NewCachedFetcher(fetcher Fetcher, rdb *redis.Client, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{inner: fetcher, rdb: rdb, ttl: ttl}
}

func (c *CachedFetcher) Name() string { return c.inner.Name() }

func cacheKey(symbol string) string { return "quote:" + symbol }

// FetchPrice returns the cached price for symbol if present, otherwise
// fetches and caches it.
func (c *CachedFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	if cached, err := c.rdb.Get(ctx, cacheKey(symbol)).Result(); err == nil {
		if price, perr := strconv.ParseFloat(cached, 64); perr == nil {
			return price, nil
		}
	} else if err != redis.Nil {
		log.Printf("quote cache read failed for %s: %v", symbol, err)
	}

	price, err := c.inner.FetchPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	value := strconv.FormatFloat(price, 'f', -1, 64)
	if err := c.rdb.Set(ctx, cacheKey(symbol), value, c.ttl).Err(); err != nil {
		log.Printf("quote cache write failed for %s: %v", symbol, err)
	}
	return price, nil
}
