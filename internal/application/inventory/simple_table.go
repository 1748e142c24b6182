package inventory

import (
	"context"
	"sync"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// DefaultSimpleTableLimit is how many assets the simple table shows.
const DefaultSimpleTableLimit = 50

// SimpleTableSnapshot is a copy of the simple table state.
type SimpleTableSnapshot struct {
	Filters inventory.FiltersState `json:"filters"`
	Items   []inventory.Asset      `json:"items"`
	Loading bool                   `json:"loading"`
	Error   string                 `json:"error,omitempty"`
	Cached  bool                   `json:"cached"`
}

// SimpleTable is the single-page asset list of the overview. Results are
// cached per "{type}-{status}" for the cache TTL.
type SimpleTable struct {
	client AssetsAPI
	cache  *cache.TtlCache[string, []inventory.Asset]
	limit  int
	logger *zap.Logger

	mu    sync.Mutex
	state SimpleTableSnapshot
	seq   uint64
}

// NewSimpleTable creates a simple table. limit <= 0 selects the default.
func NewSimpleTable(client AssetsAPI, c *cache.TtlCache[string, []inventory.Asset], limit int, logger *zap.Logger) *SimpleTable {
	if limit <= 0 {
		limit = DefaultSimpleTableLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.New[string, []inventory.Asset]("simple_table")
	}
	return &SimpleTable{client: client, cache: c, limit: limit, logger: logger}
}

// Load shows the assets matching filters, from the cache when fresh.
func (t *SimpleTable) Load(ctx context.Context, filters inventory.FiltersState) (SimpleTableSnapshot, error) {
	key := filters.CacheKey()

	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.state.Filters = filters
	t.mu.Unlock()

	if items, ok := t.cache.Get(key); ok {
		t.mu.Lock()
		if seq == t.seq {
			t.state = SimpleTableSnapshot{Filters: filters, Items: items, Cached: true}
		}
		t.mu.Unlock()
		return t.Snapshot(), nil
	}

	t.mu.Lock()
	t.state.Loading = true
	t.state.Error = ""
	t.mu.Unlock()

	resp, err := t.client.Assets(ctx, inventory.AssetQuery{
		Type:   filters.Type,
		Status: filters.Status,
		Page:   1,
		Limit:  t.limit,
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.logger.Warn("Failed to fetch simple table assets", zap.String("key", key), zap.Error(err))
		if seq == t.seq {
			t.state.Loading = false
			t.state.Error = err.Error()
		}
		return t.snapshotLocked(), err
	}

	t.cache.Set(key, resp.Assets)
	if seq == t.seq {
		t.state = SimpleTableSnapshot{Filters: filters, Items: resp.Assets}
	}
	return t.snapshotLocked(), nil
}

// Refresh drops the cached entry for filters and loads again.
func (t *SimpleTable) Refresh(ctx context.Context, filters inventory.FiltersState) (SimpleTableSnapshot, error) {
	t.cache.Invalidate(filters.CacheKey())
	return t.Load(ctx, filters)
}

// Snapshot returns a copy of the current state.
func (t *SimpleTable) Snapshot() SimpleTableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *SimpleTable) snapshotLocked() SimpleTableSnapshot {
	out := t.state
	out.Items = make([]inventory.Asset, len(t.state.Items))
	copy(out.Items, t.state.Items)
	return out
}
