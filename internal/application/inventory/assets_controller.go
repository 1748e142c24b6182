package inventory

import (
	"context"
	"sync"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultPageSize is the page size of a new asset table.
const DefaultPageSize = 10

// AssetsSnapshot is a copy of the asset table state.
type AssetsSnapshot struct {
	// Items is the page as returned by the backend.
	Items []inventory.Asset `json:"items"`
	// Rows is Items after the search filter and local sorting.
	Rows                []inventory.Asset         `json:"rows"`
	TotalCount          int                       `json:"totalCount"`
	Totals              inventory.AssetTotals     `json:"totals"`
	Pagination          inventory.PaginationState `json:"pagination"`
	Filters             inventory.FiltersState    `json:"filters"`
	Sorting             inventory.SortingState    `json:"sorting"`
	IsInitialLoading    bool                      `json:"isInitialLoading"`
	IsPaginationLoading bool                      `json:"isPaginationLoading"`
	Error               string                    `json:"error,omitempty"`
}

// AssetsController keeps one paginated asset table in sync with the backend.
//
// Every fetch is stamped with a sequence number. Only the response to the most
// recently issued fetch is applied; older responses, successful or not, are
// dropped without touching the state.
type AssetsController struct {
	client         AssetsAPI
	serverSideSort bool
	logger         *zap.Logger

	mu                sync.Mutex
	items             []inventory.Asset
	totalCount        int
	totals            inventory.AssetTotals
	pagination        inventory.PaginationState
	filters           inventory.FiltersState
	sorting           inventory.SortingState
	initialLoading    bool
	paginationLoading bool
	errMsg            string
	seq               uint64
	loaded            bool
}

// AssetsOption configures an AssetsController.
type AssetsOption func(*AssetsController)

// WithPageSize sets the initial page size.
func WithPageSize(size int) AssetsOption {
	return func(c *AssetsController) {
		if size > 0 {
			c.pagination.PageSize = size
		}
	}
}

// WithInitialFilters sets the filters used by the first fetch.
func WithInitialFilters(f inventory.FiltersState) AssetsOption {
	return func(c *AssetsController) {
		c.filters = f
	}
}

// WithServerSideSort forwards sorting to the backend instead of sorting the
// fetched page locally.
func WithServerSideSort(enabled bool) AssetsOption {
	return func(c *AssetsController) {
		c.serverSideSort = enabled
	}
}

// WithAssetsLogger sets the logger.
func WithAssetsLogger(logger *zap.Logger) AssetsOption {
	return func(c *AssetsController) {
		c.logger = logger
	}
}

// NewAssetsController creates a controller showing the first page of all
// assets. It reports initial loading until the first fetch completes.
func NewAssetsController(client AssetsAPI, opts ...AssetsOption) *AssetsController {
	c := &AssetsController{
		client:         client,
		logger:         zap.NewNop(),
		pagination:     inventory.PaginationState{PageIndex: 0, PageSize: DefaultPageSize},
		filters:        inventory.FiltersState{Status: inventory.StatusAll},
		initialLoading: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load runs the initial fetch with the current state.
func (c *AssetsController) Load(ctx context.Context) error {
	p, f, s := c.current()
	return c.Fetch(ctx, p, f, s, true)
}

// Fetch requests page p.PageIndex+1 with the given filters and sorting.
// isInitial selects which loading flag is raised and whether a failure
// clears the items. The returned error is the backend error, if any.
func (c *AssetsController) Fetch(ctx context.Context, p inventory.PaginationState, f inventory.FiltersState, s inventory.SortingState, isInitial bool) error {
	if err := p.Validate(); err != nil {
		return shared.ErrInvalidInput.WithMessage(err.Error())
	}
	if err := f.Validate(); err != nil {
		return shared.ErrInvalidInput.WithMessage(err.Error())
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loaded = true
	c.pagination = p
	c.filters = f
	c.sorting = s.Clone()
	if isInitial {
		c.initialLoading = true
	} else {
		c.paginationLoading = true
	}
	c.errMsg = ""
	c.mu.Unlock()

	query := inventory.NewAssetQuery(p, f, s, c.serverSideSort)

	ctx, span := telemetry.StartSpan(ctx, "assets.fetch",
		telemetry.WithAttribute(telemetry.SpanAttrPage, query.Page),
		telemetry.WithAttribute(telemetry.SpanAttrPageSize, query.Limit),
		telemetry.WithAttribute(telemetry.SpanAttrStatus, string(query.Status)),
		telemetry.WithAttribute(telemetry.SpanAttrSequence, int64(seq)),
	)
	defer span.End()

	resp, err := c.client.Assets(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		telemetry.AddEvent(span, "response_discarded", "latest_seq", int64(c.seq))
		c.logger.Debug("Discarding superseded assets response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq),
		)
		return err
	}

	c.initialLoading = false
	c.paginationLoading = false

	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("Failed to fetch assets", zap.Int("page", query.Page), zap.Error(err))
		c.errMsg = err.Error()
		if isInitial {
			c.items = nil
			c.totalCount = 0
			c.totals = inventory.AssetTotals{}
		}
		return err
	}

	c.items = resp.Assets
	c.totalCount = resp.Pagination.Total
	c.totals = resp.Totals
	if resp.Pagination.Page >= 1 && resp.Pagination.Page != query.Page {
		c.logger.Info("Pagination mismatch, adjusting page index",
			zap.Int("requested", query.Page),
			zap.Int("returned", resp.Pagination.Page),
		)
		c.pagination.PageIndex = resp.Pagination.Page - 1
	}
	telemetry.SetOK(span)
	return nil
}

// ChangePagination fetches the requested page with the current filters.
func (c *AssetsController) ChangePagination(ctx context.Context, p inventory.PaginationState) error {
	_, f, s := c.current()
	return c.Fetch(ctx, p, f, s, false)
}

// ChangeFilters applies new filters from the first page.
func (c *AssetsController) ChangeFilters(ctx context.Context, f inventory.FiltersState) error {
	p, _, s := c.current()
	p.PageIndex = 0
	return c.Fetch(ctx, p, f, s, false)
}

// ChangeSorting applies a new sort order.
func (c *AssetsController) ChangeSorting(ctx context.Context, s inventory.SortingState) error {
	p, f, _ := c.current()
	return c.Fetch(ctx, p, f, s, false)
}

// Retry repeats the last request as an initial load.
func (c *AssetsController) Retry(ctx context.Context) error {
	p, f, s := c.current()
	return c.Fetch(ctx, p, f, s, true)
}

// Reset drops the loaded page and returns to the initial state, keeping the
// page size. Fetches still in flight are discarded when they complete.
func (c *AssetsController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.items = nil
	c.totalCount = 0
	c.totals = inventory.AssetTotals{}
	c.pagination.PageIndex = 0
	c.sorting = nil
	c.initialLoading = true
	c.paginationLoading = false
	c.errMsg = ""
	c.loaded = false
}

// Loaded reports whether any fetch was issued yet.
func (c *AssetsController) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Snapshot returns a copy of the current state.
func (c *AssetsController) Snapshot() AssetsSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]inventory.Asset, len(c.items))
	copy(items, c.items)

	rows := inventory.FilterBySearch(items, c.filters.Search)
	if !c.serverSideSort {
		rows = inventory.SortAssets(rows, c.sorting)
	}

	return AssetsSnapshot{
		Items:               items,
		Rows:                rows,
		TotalCount:          c.totalCount,
		Totals:              c.totals,
		Pagination:          c.pagination,
		Filters:             c.filters,
		Sorting:             c.sorting.Clone(),
		IsInitialLoading:    c.initialLoading,
		IsPaginationLoading: c.paginationLoading,
		Error:               c.errMsg,
	}
}

func (c *AssetsController) current() (inventory.PaginationState, inventory.FiltersState, inventory.SortingState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination, c.filters, c.sorting.Clone()
}
