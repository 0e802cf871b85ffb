// internal/pagecache/cache.go
//
// Rendered-page cache.
//
// Context
// -------
// Rendering a page runs the SEO controller, markdown is already cached in
// the content library, and the theme template executes once.  The result
// for a path never changes until the content or a page_meta override does,
// so the handler keeps the bytes here.  Concurrent misses for the same key
// collapse into one render through singleflight.
//
// Entries live in a sync.Map with a lastSeen UnixNano stamp.  A background
// evictor (evictor.go) drops idle entries and trims by LRU when the map
// grows past maxEntries.  Close stops the evictor.
package pagecache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/c0de128/4seasons/internal/metrics"
)

// Static defaults used when New receives zero values.
const (
	IdleTTL       = 10 * time.Minute
	MaxEntries    = 512
	EvictInterval = time.Minute
)

// Page is one cached response.
type Page struct {
	Status      int
	ContentType string
	ETag        string
	Body        []byte
}

type entry struct {
	page     *Page
	lastSeen int64 // UnixNano
}

// RenderFunc produces a page on a miss.  Returning cacheable=false serves
// the page without storing it (error pages, previews).
type RenderFunc func() (page *Page, cacheable bool, err error)

// Cache is safe for concurrent use.
type Cache struct {
	sfg        singleflight.Group
	m          sync.Map
	idleTTL    time.Duration
	maxEntries int

	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// New constructs a Cache and starts the background evictor.
func New(idleTTL time.Duration, maxEntries int, interval time.Duration) *Cache {
	if idleTTL <= 0 {
		idleTTL = IdleTTL
	}
	if maxEntries <= 0 {
		maxEntries = MaxEntries
	}
	if interval <= 0 {
		interval = EvictInterval
	}
	c := &Cache{
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
		ticker:     time.NewTicker(interval),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go c.evictLoop()
	return c
}

// Get returns the page for key, rendering it on a miss.  hit reports
// whether the page came from the cache.
func (c *Cache) Get(key string, render RenderFunc) (page *Page, hit bool, err error) {
	if p, ok := c.load(key); ok {
		metrics.PageCacheHitsTotal.Inc()
		return p, true, nil
	}

	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after the singleflight barrier.
		if p, ok := c.load(key); ok {
			return p, nil
		}
		metrics.PageCacheMissesTotal.Inc()
		p, cacheable, err := render()
		if err != nil {
			return nil, err
		}
		if cacheable {
			if _, loaded := c.m.Swap(key, &entry{page: p, lastSeen: time.Now().UnixNano()}); !loaded {
				metrics.CachedPages.Inc()
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Page), false, nil
}

func (c *Cache) load(key string) (*Page, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
	return ent.page, true
}

// Invalidate drops key.
func (c *Cache) Invalidate(key string) {
	if _, ok := c.m.LoadAndDelete(key); ok {
		metrics.CachedPages.Dec()
	}
}

// VariantSep separates a path from a variant suffix in a key, as in
// "/calculators/affordability#TX".
const VariantSep = "#"

// InvalidatePrefix drops key and every variant of it ("key#…").
func (c *Cache) InvalidatePrefix(key string) {
	c.Invalidate(key)
	prefix := key + VariantSep
	c.m.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			c.Invalidate(k.(string))
		}
		return true
	})
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.m.Range(func(k, _ any) bool {
		c.Invalidate(k.(string))
		return true
	})
}

// Len counts entries.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor and waits for it to exit.  Safe to call twice.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stop)
		<-c.done
	})
}
