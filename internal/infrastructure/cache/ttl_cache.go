// Package cache provides the short-lived result caches used by the
// dashboard views.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is the freshness window of view caches
const DefaultTTL = 5 * time.Minute

// Clock returns the current time
type Clock func() time.Time

// Observer is notified of every lookup, e.g. to feed metrics
type Observer func(cache string, hit bool)

// cacheEntry is replaced on write, never mutated
type cacheEntry[V any] struct {
	value    V
	storedAt time.Time
}

// TtlCache is a keyed cache whose entries are valid while
// now - storedAt < ttl. Expiry is checked lazily on Get; stale entries are
// ignored but kept until the next Set for the same key overwrites them.
type TtlCache[K comparable, V any] struct {
	name     string
	ttl      time.Duration
	now      Clock
	logger   *zap.Logger
	observer Observer

	mu      sync.RWMutex
	entries map[K]cacheEntry[V]

	hits   int64
	misses int64
}

// Option is a functional option for configuring a TtlCache
type Option func(*options)

type options struct {
	ttl      time.Duration
	now      Clock
	logger   *zap.Logger
	observer Observer
}

// WithTTL overrides the default 5 minute TTL
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock sets the time source
func WithClock(now Clock) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers a lookup observer
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// New creates an empty cache. name identifies the owning widget in logs and metrics.
func New[K comparable, V any](name string, opts ...Option) *TtlCache[K, V] {
	o := &options{
		ttl:    DefaultTTL,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &TtlCache[K, V]{
		name:     name,
		ttl:      o.ttl,
		now:      o.now,
		logger:   o.logger,
		observer: o.observer,
		entries:  make(map[K]cacheEntry[V]),
	}
}

// Get returns the value stored under key if it is still fresh
func (c *TtlCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Sub(entry.storedAt) < c.ttl {
		atomic.AddInt64(&c.hits, 1)
		c.observe(true)
		c.logger.Debug("cache hit", zap.String("cache", c.name), zap.Any("key", key))
		return entry.value, true
	}

	atomic.AddInt64(&c.misses, 1)
	c.observe(false)
	c.logger.Debug("cache miss", zap.String("cache", c.name), zap.Any("key", key), zap.Bool("stale", ok))
	var zero V
	return zero, false
}

// Set stores value under key with the current timestamp, replacing any previous entry
func (c *TtlCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = cacheEntry[V]{value: value, storedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the entry for key
func (c *TtlCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops every entry
func (c *TtlCache[K, V]) Purge() {
	c.mu.Lock()
	c.entries = make(map[K]cacheEntry[V])
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or stale
func (c *TtlCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Name returns the cache name
func (c *TtlCache[K, V]) Name() string {
	return c.name
}

// Stats holds lookup counters
type Stats struct {
	Name    string  `json:"name"`
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// GetStats returns lookup counters
func (c *TtlCache[K, V]) GetStats() Stats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Name:    c.name,
		Entries: c.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: rate,
	}
}

func (c *TtlCache[K, V]) observe(hit bool) {
	if c.observer != nil {
		c.observer(c.name, hit)
	}
}
