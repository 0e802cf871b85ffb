// evictor.go houses the eviction loop for Cache.  Every tick it scans the
// map and removes:
//
//   - pages idle longer than idleTTL
//   - least-recently-used pages when the map size exceeds maxEntries
//
// Each eviction is logged at DEBUG and updates Prometheus counters.
package pagecache

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/c0de128/4seasons/internal/metrics"
)

func (c *Cache) evictLoop() {
	defer close(c.done)
	defer c.ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-c.ticker.C:
			c.evict(now)
		}
	}
}

// evict runs one idle pass and one LRU pass.  It returns how many entries
// were dropped.
func (c *Cache) evict(now time.Time) int {
	var count, evicted int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	c.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(now.UnixNano() - atomic.LoadInt64(&ent.lastSeen))
		if idle > c.idleTTL {
			if c.m.CompareAndDelete(key, value) {
				zap.L().Debug("page evicted",
					zap.String("key", key.(string)),
					zap.Duration("idle", idle.Truncate(time.Second)))
				metrics.PageCacheEvictTotal.Inc()
				metrics.CachedPages.Dec()
				evicted++
			}
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if count <= c.maxEntries {
		return evicted
	}
	type kv struct {
		key string
		at  int64
		val any
	}
	all := make([]kv, 0, count)
	c.m.Range(func(key, value any) bool {
		all = append(all, kv{
			key: key.(string),
			at:  atomic.LoadInt64(&value.(*entry).lastSeen),
			val: value,
		})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-c.maxEntries; i++ {
		if c.m.CompareAndDelete(all[i].key, all[i].val) {
			zap.L().Debug("page evicted (LRU pressure)", zap.String("key", all[i].key))
			metrics.PageCacheEvictTotal.Inc()
			metrics.CachedPages.Dec()
			evicted++
		}
	}
	return evicted
}
