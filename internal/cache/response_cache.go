package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

const (
	defaultTTL        = time.Hour
	criticalTTLFactor = 2
	sweepSoftLimit    = 100
)

// DurableStore is the optional backing layer consulted before the in-memory
// map and written alongside it; a Redis-backed implementation lives in
// durable_redis.go. Any error from it degrades to in-memory-only operation.
type DurableStore interface {
	Get(key string) (*model.KnowledgeResponse, bool, error)
	Put(key string, resp *model.KnowledgeResponse, ttl time.Duration) error
}

type cacheEntry struct {
	response     *model.KnowledgeResponse
	storedAt     time.Time
	ttl          time.Duration
	accessCount  int64
	lastAccessed time.Time
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Stats is the response cache's point-in-time counters, backed by real
// atomic counters rather than a placeholder hit rate.
type Stats struct {
	Size          int
	HitRate       float64
	TotalAccesses int64
	Hits          int64
	Misses        int64
	Evictions     int64
}

// ResponseCache is the in-memory, TTL-expiring response cache, with an
// optional DurableStore consulted ahead of the map and written to alongside
// it. Entries are expired lazily plus via a soft-threshold sweep rather than
// a background ticker, and held in an LRU cache sized to bound memory
// growth.
type ResponseCache struct {
	mu      sync.Mutex
	lru     *lru.Cache[string, *cacheEntry]
	durable DurableStore

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	now func() time.Time
}

// New creates a ResponseCache holding at most maxEntries items in memory.
func New(maxEntries int, durable DurableStore) (*ResponseCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c := &ResponseCache{durable: durable, now: time.Now}
	l, err := lru.NewWithEvict[string, *cacheEntry](maxEntries, func(key string, _ *cacheEntry) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// Get looks up key, consulting the durable store first when configured. A
// hit returns a response with CacheUsed set; an expired entry is evicted and
// reported as a miss.
func (c *ResponseCache) Get(key string) (*model.KnowledgeResponse, bool) {
	if c.durable != nil {
		if resp, ok, err := c.durable.Get(key); err != nil {
			slog.Warn("cache durable layer unavailable, degrading to in-memory", "error", err)
		} else if ok {
			c.hits.Add(1)
			marked := *resp
			marked.Metadata.CacheUsed = true
			return &marked, true
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	now := c.now()
	if entry.expired(now) {
		c.lru.Remove(key)
		c.misses.Add(1)
		return nil, false
	}

	entry.accessCount++
	entry.lastAccessed = now
	c.hits.Add(1)

	marked := *entry.response
	marked.Metadata.CacheUsed = true
	return &marked, true
}

// Put stores resp under key with a TTL derived from priority: critical
// priority queries get criticalTTLFactor times the base TTL. A zero baseTTL
// defaults to one hour.
func (c *ResponseCache) Put(key string, resp *model.KnowledgeResponse, priority model.Priority, baseTTL time.Duration) {
	if baseTTL <= 0 {
		baseTTL = defaultTTL
	}
	ttl := baseTTL
	if priority == model.PriorityCritical {
		ttl = baseTTL * criticalTTLFactor
	}

	if c.durable != nil {
		if err := c.durable.Put(key, resp, ttl); err != nil {
			slog.Warn("cache durable layer write failed, continuing in-memory-only", "error", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.lru.Add(key, &cacheEntry{
		response:     resp,
		storedAt:     now,
		ttl:          ttl,
		lastAccessed: now,
	})

	if c.lru.Len() > sweepSoftLimit {
		c.sweepExpiredLocked(now)
	}
}

// sweepExpiredLocked removes every expired entry; callers must hold c.mu.
func (c *ResponseCache) sweepExpiredLocked(now time.Time) {
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if ok && entry.expired(now) {
			c.lru.Remove(key)
		}
	}
}

// Clear empties the in-memory cache.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Stats reports the cache's current size and access counters.
func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	size := c.lru.Len()
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Size:          size,
		HitRate:       hitRate,
		TotalAccesses: total,
		Hits:          hits,
		Misses:        misses,
		Evictions:     c.evictions.Load(),
	}
}
