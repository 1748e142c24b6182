package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestTtlCache_FreshEntryIsServed(t *testing.T) {
	clock := newClock()
	c := New[string, []int]("assets", WithClock(clock.Now))

	c.Set("all-active", []int{1, 2, 3})
	clock.Advance(DefaultTTL - time.Millisecond)

	got, ok := c.Get("all-active")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestTtlCache_ExpiredEntryIsIgnoredButKept(t *testing.T) {
	clock := newClock()
	c := New[string, string]("assets", WithClock(clock.Now))

	c.Set("ip-all", "old")
	clock.Advance(DefaultTTL)

	_, ok := c.Get("ip-all")
	assert.False(t, ok, "an entry exactly TTL old is stale")
	assert.Equal(t, 1, c.Len(), "stale entries are not deleted on read")

	c.Set("ip-all", "new")
	got, ok := c.Get("ip-all")
	require.True(t, ok)
	assert.Equal(t, "new", got)
	assert.Equal(t, 1, c.Len())
}

func TestTtlCache_MissingKey(t *testing.T) {
	c := New[string, int]("trends")
	v, ok := c.Get("30d")
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestTtlCache_InvalidateAndPurge(t *testing.T) {
	c := New[string, int]("detail")
	c.Set("a", 1)
	c.Set("b", 2)

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestTtlCache_StatsAndObserver(t *testing.T) {
	var observed []bool
	c := New[string, int]("simple", WithTTL(time.Minute), WithObserver(func(name string, hit bool) {
		assert.Equal(t, "simple", name)
		observed = append(observed, hit)
	}))

	c.Get("k")
	c.Set("k", 1)
	c.Get("k")
	c.Get("k")

	stats := c.GetStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 0.001)
	assert.Equal(t, []bool{false, true, true}, observed)
}

func TestTtlCache_ConcurrentAccess(t *testing.T) {
	c := New[int, int]("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%5, i)
			c.Get(i % 5)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, c.Len())
}
