package catalog

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/hostpad/internal/log"
)

const (
	DefaultCacheTTL             = 10 * time.Minute
	DefaultCacheCleanupInterval = 30 * time.Minute

	hostsKey = "hosts"
)

// hostCache is a read-through cache of the grouped host list.
type hostCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	skip  bool
}

func newHostCache(ttl time.Duration, skip bool) *hostCache {
	return &hostCache{
		cache: gocache.New(ttl, DefaultCacheCleanupInterval),
		ttl:   ttl,
		skip:  skip,
	}
}

// get returns the cached list, calling load and storing its result on a
// miss. hit reports whether load was skipped.
func (c *hostCache) get(ctx context.Context, load func(context.Context) ([]Host, error)) (hosts []Host, hit bool, err error) {
	if c.skip {
		hosts, err = load(ctx)
		return hosts, false, err
	}

	if v, found := c.cache.Get(hostsKey); found {
		if cached, ok := v.([]Host); ok {
			log.Debug(log.CatCache, "cache hit", "key", hostsKey)
			return cached, true, nil
		}
		log.Error(log.CatCache, "wrong type assertion when getting value", "key", hostsKey)
	}

	hosts, err = load(ctx)
	if err != nil {
		return nil, false, err
	}
	c.cache.Set(hostsKey, hosts, c.ttl)
	return hosts, false, nil
}

func (c *hostCache) flush() {
	c.cache.Flush()
	log.Debug(log.CatCache, "cache flushed")
}
