package tools

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RunCache memoizes tool results for the lifetime of one agent run, so a
// model that asks the same question twice only pays for it once.
type RunCache struct {
	cache *gocache.Cache
}

func NewRunCache(ttl time.Duration) *RunCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RunCache{
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

func (c *RunCache) Get(key string) (Result, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		return Result{}, false
	}
	r, ok := v.(Result)
	return r, ok
}

func (c *RunCache) Set(key string, result Result) {
	c.cache.SetDefault(key, result)
}
