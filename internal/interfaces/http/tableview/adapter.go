package tableview

import (
	"context"
	"slices"
	"sync"
	"time"

	appinventory "github.com/easm/dashboard/internal/application/inventory"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/shared"
)

// Callbacks are the parent's change handlers. The adapter never changes
// pagination, filters or sorting itself; it only reports edits through these.
type Callbacks struct {
	OnPaginationChange func(ctx context.Context, p inventory.PaginationState) error
	OnFiltersChange    func(ctx context.Context, f inventory.FiltersState) error
	OnSortingChange    func(ctx context.Context, s inventory.SortingState) error
	OnRetry            func(ctx context.Context) error
}

// CallbacksFor wires the callbacks to an assets controller.
func CallbacksFor(c *appinventory.AssetsController) Callbacks {
	return Callbacks{
		OnPaginationChange: c.ChangePagination,
		OnFiltersChange:    c.ChangeFilters,
		OnSortingChange:    c.ChangeSorting,
		OnRetry:            c.Retry,
	}
}

// Adapter holds the table-local state (row selection, column visibility and
// the column-filter mirror of the canonical filters).
type Adapter struct {
	cb Callbacks

	mu            sync.Mutex
	filters       inventory.FiltersState
	columnFilters []ColumnFilter
	selected      map[string]bool
	hidden        map[string]bool
}

// NewAdapter creates an adapter reporting edits to cb.
func NewAdapter(cb Callbacks) *Adapter {
	return &Adapter{
		cb:       cb,
		selected: make(map[string]bool),
		hidden:   make(map[string]bool),
	}
}

// SyncFilters rebuilds the column filters from the parent's filters.
func (a *Adapter) SyncFilters(f inventory.FiltersState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.syncLocked(f)
}

func (a *Adapter) syncLocked(f inventory.FiltersState) {
	a.filters = f
	a.columnFilters = CanonicalFiltersToColumnFilters(f)
}

// ColumnFilters returns the current column filters.
func (a *Adapter) ColumnFilters() []ColumnFilter {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.columnFilters)
}

// SetPagination reports a page change.
func (a *Adapter) SetPagination(ctx context.Context, p inventory.PaginationState) error {
	if a.cb.OnPaginationChange == nil {
		return nil
	}
	return a.cb.OnPaginationChange(ctx, p)
}

// SetPageSize reports a page size change, keeping the first visible row on
// screen.
func (a *Adapter) SetPageSize(ctx context.Context, current inventory.PaginationState, size int) error {
	if size <= 0 {
		return shared.ErrInvalidInput.WithMessage("Page size must be positive")
	}
	first := current.PageIndex * current.PageSize
	return a.SetPagination(ctx, inventory.PaginationState{PageIndex: first / size, PageSize: size})
}

// SetSorting reports a sort change.
func (a *Adapter) SetSorting(ctx context.Context, s inventory.SortingState) error {
	for _, spec := range s {
		col, ok := findColumn(spec.ColumnID)
		if !ok || !col.Sortable {
			return shared.ErrInvalidInput.WithMessage("Column " + spec.ColumnID + " is not sortable")
		}
	}
	if a.cb.OnSortingChange == nil {
		return nil
	}
	return a.cb.OnSortingChange(ctx, s)
}

// ToggleSorting cycles column through ascending, descending and unsorted,
// the way a header click does.
func (a *Adapter) ToggleSorting(ctx context.Context, current inventory.SortingState, column string) error {
	var next inventory.SortingState
	switch {
	case len(current) == 0 || current[0].ColumnID != column:
		next = inventory.SortingState{{ColumnID: column}}
	case !current[0].Desc:
		next = inventory.SortingState{{ColumnID: column, Desc: true}}
	default:
		next = inventory.SortingState{}
	}
	return a.SetSorting(ctx, next)
}

// SetFilters reports a canonical filter change, as made by the toolbar.
func (a *Adapter) SetFilters(ctx context.Context, f inventory.FiltersState) error {
	if a.cb.OnFiltersChange == nil {
		return nil
	}
	return a.cb.OnFiltersChange(ctx, f)
}

// SetColumnFilters reports the canonical filters equivalent to a column
// filter edit. The column filters are rebuilt from them, so a removed status
// filter reappears while the status is still applied.
func (a *Adapter) SetColumnFilters(ctx context.Context, filters []ColumnFilter) error {
	a.mu.Lock()
	next := ColumnFilterEventToCanonicalFilters(a.filters, filters)
	// Shown filters always follow the canonical ones, even when the edit
	// left them unchanged.
	a.syncLocked(next)
	a.mu.Unlock()

	if a.cb.OnFiltersChange == nil {
		return nil
	}
	return a.cb.OnFiltersChange(ctx, next)
}

// Retry reports a retry request.
func (a *Adapter) Retry(ctx context.Context) error {
	if a.cb.OnRetry == nil {
		return nil
	}
	return a.cb.OnRetry(ctx)
}

// SelectRows marks rows as selected or unselected.
func (a *Adapter) SelectRows(selected bool, ids ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		if selected {
			a.selected[id] = true
		} else {
			delete(a.selected, id)
		}
	}
}

// ClearSelection unselects every row.
func (a *Adapter) ClearSelection() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.selected)
}

// SelectedIDs returns the selected row ids in sorted order.
func (a *Adapter) SelectedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.selected))
	for id := range a.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// SetColumnVisibility shows or hides a hideable column.
func (a *Adapter) SetColumnVisibility(column string, visible bool) error {
	col, ok := findColumn(column)
	if !ok {
		return shared.ErrInvalidInput.WithMessage("Unknown column " + column)
	}
	if !col.Hideable {
		return shared.ErrInvalidInput.WithMessage("Column " + column + " cannot be hidden")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if visible {
		delete(a.hidden, column)
	} else {
		a.hidden[column] = true
	}
	return nil
}

// ColumnView is a column with its visibility
type ColumnView struct {
	Column
	Visible bool `json:"visible"`
}

// Row is one rendered asset
type Row struct {
	ID           string              `json:"id"`
	Identifier   string              `json:"identifier"`
	Type         inventory.AssetType `json:"type"`
	Status       string              `json:"status"`
	Ports        int                 `json:"ports"`
	Services     int                 `json:"services"`
	Endpoints    int                 `json:"endpoints"`
	Certificates int                 `json:"certificates"`
	LastSeen     *time.Time          `json:"lastSeen,omitempty"`
	Selected     bool                `json:"selected"`
}

// Pager is the derived pagination footer
type Pager struct {
	PageIndex       int   `json:"pageIndex"`
	PageSize        int   `json:"pageSize"`
	PageCount       int   `json:"pageCount"`
	CurrentPage     int   `json:"currentPage"`
	StartItem       int   `json:"startItem"`
	EndItem         int   `json:"endItem"`
	CanPrevious     bool  `json:"canPrevious"`
	CanNext         bool  `json:"canNext"`
	PageSizeOptions []int `json:"pageSizeOptions"`
}

// View is the table view model
type View struct {
	Columns             []ColumnView           `json:"columns"`
	Rows                []Row                  `json:"rows"`
	TotalCount          int                    `json:"totalCount"`
	Totals              inventory.AssetTotals  `json:"totals"`
	Pager               Pager                  `json:"pager"`
	Filters             inventory.FiltersState `json:"filters"`
	ColumnFilters       []ColumnFilter         `json:"columnFilters"`
	Sorting             inventory.SortingState `json:"sorting"`
	SelectedCount       int                    `json:"selectedCount"`
	IsInitialLoading    bool                   `json:"isInitialLoading"`
	IsPaginationLoading bool                   `json:"isPaginationLoading"`
	Error               string                 `json:"error,omitempty"`
}

// Render builds the view model of snap. The column filters are always
// rebuilt from snap.Filters.
func (a *Adapter) Render(snap appinventory.AssetsSnapshot) View {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.syncLocked(snap.Filters)

	columns := make([]ColumnView, len(AssetColumns))
	for i, c := range AssetColumns {
		columns[i] = ColumnView{Column: c, Visible: !a.hidden[c.ID]}
	}

	rows := make([]Row, len(snap.Rows))
	selectedCount := 0
	for i := range snap.Rows {
		asset := &snap.Rows[i]
		rows[i] = Row{
			ID:         asset.ID,
			Identifier: asset.Identifier,
			Type:       asset.Type,
			Status:     asset.StatusLabel(),
			Ports:      asset.OpenPortCount(),
			Services:   asset.ServiceCount(),
			Endpoints:  asset.EndpointCount(),
			LastSeen:   asset.LastSeen,
			Selected:   a.selected[asset.ID],
		}
		if asset.CertificateStats != nil {
			rows[i].Certificates = asset.CertificateStats.TotalCertificates
		}
		if rows[i].Selected {
			selectedCount++
		}
	}

	loading := snap.IsInitialLoading || snap.IsPaginationLoading
	pageCount := PageCount(snap.TotalCount, snap.Pagination.PageSize)
	current := snap.Pagination.BackendPage()
	pager := Pager{
		PageIndex:       snap.Pagination.PageIndex,
		PageSize:        snap.Pagination.PageSize,
		PageCount:       pageCount,
		CurrentPage:     current,
		CanPrevious:     current > 1 && !loading,
		CanNext:         current < pageCount && pageCount > 1 && !loading,
		PageSizeOptions: inventory.PageSizeOptions,
	}
	if snap.TotalCount > 0 {
		pager.StartItem = (current-1)*snap.Pagination.PageSize + 1
		pager.EndItem = min(current*snap.Pagination.PageSize, snap.TotalCount)
	}

	return View{
		Columns:             columns,
		Rows:                rows,
		TotalCount:          snap.TotalCount,
		Totals:              snap.Totals,
		Pager:               pager,
		Filters:             snap.Filters,
		ColumnFilters:       slices.Clone(a.columnFilters),
		Sorting:             snap.Sorting,
		SelectedCount:       selectedCount,
		IsInitialLoading:    snap.IsInitialLoading,
		IsPaginationLoading: snap.IsPaginationLoading,
		Error:               snap.Error,
	}
}
