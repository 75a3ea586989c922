// Package cache holds the rendered-page cache shared by the public handlers.
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// Page 是缓存中的一条完整渲染结果。
type Page struct {
	ContentType string
	Body        []byte
}

// Flusher is the invalidation hook handed to the write services. Post writes
// clear the whole cache; there is no key-level invalidation because rendered
// listings aggregate across the full post set.
type Flusher interface {
	Flush(ctx context.Context) error
}

// PageCache 按请求 URL 缓存整页渲染结果。
type PageCache interface {
	Flusher
	Get(ctx context.Context, key string) (Page, bool)
	Set(ctx context.Context, key string, page Page) error
}

// RenderedPageCache is a TTL-bounded in-process PageCache on top of ristretto.
type RenderedPageCache struct {
	pages *cache.Cache[Page]
	ttl   time.Duration
}

// NewRenderedPageCache builds the process-wide rendered page cache.
func NewRenderedPageCache(ttl time.Duration) (*RenderedPageCache, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     64 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &RenderedPageCache{
		pages: cache.New[Page](ristretto_store.NewRistretto(client)),
		ttl:   ttl,
	}, nil
}

// Get returns the cached page for key if it is still live.
func (c *RenderedPageCache) Get(ctx context.Context, key string) (Page, bool) {
	page, err := c.pages.Get(ctx, key)
	if err != nil {
		return Page{}, false
	}
	return page, true
}

// Set stores a rendered page under key, bounded by the configured TTL.
func (c *RenderedPageCache) Set(ctx context.Context, key string, page Page) error {
	return c.pages.Set(ctx, key, page, store.WithExpiration(c.ttl))
}

// Flush drops every cached page. Safe to call concurrently.
func (c *RenderedPageCache) Flush(ctx context.Context) error {
	return c.pages.Clear(ctx)
}
