package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appinventory "github.com/easm/dashboard/internal/application/inventory"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/easm/dashboard/internal/interfaces/http/tableview"
)

// AssetsHandler serves the paginated asset table, the simple table and
// asset details
type AssetsHandler struct {
	BaseHandler
	table   *appinventory.AssetsController
	adapter *tableview.Adapter
	simple  *appinventory.SimpleTable
	detail  *appinventory.DetailService
}

// NewAssetsHandler creates a new AssetsHandler. The table adapter reports
// every edit to table.
func NewAssetsHandler(table *appinventory.AssetsController, simple *appinventory.SimpleTable, detail *appinventory.DetailService) *AssetsHandler {
	return &AssetsHandler{
		table:   table,
		adapter: tableview.NewAdapter(tableview.CallbacksFor(table)),
		simple:  simple,
		detail:  detail,
	}
}

// respondTable renders the table after an edit. Fetch failures are part of
// the view; only invalid input and an expired session become error responses.
func (h *AssetsHandler) respondTable(c *gin.Context, err error) {
	if err != nil && (errors.Is(err, shared.ErrInvalidInput) || errors.Is(err, apiclient.ErrSessionExpired)) {
		h.HandleError(c, err)
		return
	}
	view := h.adapter.Render(h.table.Snapshot())
	h.SuccessWithMeta(c, view, int64(view.TotalCount), view.Pager.CurrentPage, view.Pager.PageSize)
}

// Table godoc
// @Summary      Get asset table
// @Description  Returns the asset table view. The first call loads the first page.
// @Tags         assets
// @Produce      json
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table [get]
func (h *AssetsHandler) Table(c *gin.Context) {
	var err error
	if !h.table.Loaded() {
		err = h.table.Load(c.Request.Context())
	}
	h.respondTable(c, err)
}

// ChangePagination godoc
// @Summary      Change table page
// @Description  Moves the asset table to another page and reloads it
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body PaginationRequest true "Page index and size"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/pagination [post]
func (h *AssetsHandler) ChangePagination(c *gin.Context) {
	var req PaginationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	err := h.adapter.SetPagination(c.Request.Context(), inventory.PaginationState{
		PageIndex: *req.PageIndex,
		PageSize:  req.PageSize,
	})
	h.respondTable(c, err)
}

// ChangePageSize godoc
// @Summary      Change table page size
// @Description  Changes the page size and returns to the first page
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body PageSizeRequest true "Page size"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/page-size [post]
func (h *AssetsHandler) ChangePageSize(c *gin.Context) {
	var req PageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	current := h.table.Snapshot().Pagination
	h.respondTable(c, h.adapter.SetPageSize(c.Request.Context(), current, req.PageSize))
}

// ChangeFilters godoc
// @Summary      Change table filters
// @Description  Replaces the type, status and search filters and reloads the first page
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body FiltersRequest true "Filters"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/filters [post]
func (h *AssetsHandler) ChangeFilters(c *gin.Context) {
	var req FiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	err := h.adapter.SetFilters(c.Request.Context(), inventory.FiltersState{
		Type:   req.Type,
		Status: req.Status,
		Search: req.Search,
	})
	h.respondTable(c, err)
}

// ChangeSorting godoc
// @Summary      Change table sorting
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body SortingRequest true "Sort specs"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/sorting [post]
func (h *AssetsHandler) ChangeSorting(c *gin.Context) {
	var req SortingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respondTable(c, h.adapter.SetSorting(c.Request.Context(), req.toSorting()))
}

// ToggleSorting godoc
// @Summary      Toggle column sorting
// @Description  Cycles the sort direction of one column
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body ToggleSortRequest true "Column to toggle"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/sorting/toggle [post]
func (h *AssetsHandler) ToggleSorting(c *gin.Context) {
	var req ToggleSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	current := h.table.Snapshot().Sorting
	h.respondTable(c, h.adapter.ToggleSorting(c.Request.Context(), current, req.Column))
}

// ChangeColumnFilters godoc
// @Summary      Change column filters
// @Description  Applies a column filter edit. The shown column filters always follow the applied filters.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body ColumnFiltersRequest true "Column filters"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/column-filters [post]
func (h *AssetsHandler) ChangeColumnFilters(c *gin.Context) {
	var req ColumnFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respondTable(c, h.adapter.SetColumnFilters(c.Request.Context(), req.ColumnFilters))
}

// Retry godoc
// @Summary      Retry table load
// @Description  Reloads the current page after a failed load
// @Tags         assets
// @Produce      json
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/retry [post]
func (h *AssetsHandler) Retry(c *gin.Context) {
	h.respondTable(c, h.adapter.Retry(c.Request.Context()))
}

// Select godoc
// @Summary      Select table rows
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body SelectionRequest true "Rows to select or deselect"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/selection [post]
func (h *AssetsHandler) Select(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.adapter.SelectRows(req.Selected, req.IDs...)
	h.respondTable(c, nil)
}

// ClearSelection godoc
// @Summary      Clear row selection
// @Tags         assets
// @Produce      json
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/selection [delete]
func (h *AssetsHandler) ClearSelection(c *gin.Context) {
	h.adapter.ClearSelection()
	h.respondTable(c, nil)
}

// SetColumnVisibility godoc
// @Summary      Set column visibility
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body VisibilityRequest true "Column visibility"
// @Success      200 {object} dto.Response{data=tableview.View}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/table/visibility [post]
func (h *AssetsHandler) SetColumnVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respondTable(c, h.adapter.SetColumnVisibility(req.Column, req.Visible))
}

// Simple godoc
// @Summary      Get simple asset table
// @Description  Returns the unpaginated asset table for one type and status
// @Tags         assets
// @Produce      json
// @Param        type query string false "Asset type" Enums(all, domain, subdomain, ip, service)
// @Param        status query string false "Asset status"
// @Param        refresh query bool false "Reload from the backend"
// @Success      200 {object} dto.Response{data=appinventory.SimpleTableSnapshot}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/simple [get]
func (h *AssetsHandler) Simple(c *gin.Context) {
	var q SimpleTableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	filters := inventory.FiltersState{Type: q.Type, Status: q.Status}
	if filters.Status == "" {
		filters.Status = inventory.StatusActive
	}

	load := h.simple.Load
	if q.Refresh {
		load = h.simple.Refresh
	}
	snap, err := load(c.Request.Context(), filters)
	if err != nil && errors.Is(err, apiclient.ErrSessionExpired) {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snap)
}

// Detail godoc
// @Summary      Get asset detail
// @Tags         assets
// @Produce      json
// @Param        type path string true "Asset type"
// @Param        id path string true "Asset ID"
// @Success      200 {object} dto.Response{data=inventory.Asset}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /assets/{type}/{id} [get]
func (h *AssetsHandler) Detail(c *gin.Context) {
	var uri AssetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return
	}
	asset, err := h.detail.Get(c.Request.Context(), uri.Type, uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, asset)
}

// Reset drops the table state, used when the session ends.
func (h *AssetsHandler) Reset() {
	h.table.Reset()
	h.adapter.ClearSelection()
}
