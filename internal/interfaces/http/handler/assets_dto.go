package handler

import (
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/interfaces/http/tableview"
)

// PaginationRequest is the body of a page change
type PaginationRequest struct {
	PageIndex *int `json:"pageIndex" binding:"required,gte=0"`
	PageSize  int  `json:"pageSize" binding:"required,gt=0"`
}

// PageSizeRequest is the body of a page size change
type PageSizeRequest struct {
	PageSize int `json:"pageSize" binding:"required,gt=0"`
}

// FiltersRequest is the body of a toolbar filter change
type FiltersRequest struct {
	Type   inventory.AssetType   `json:"type" binding:"omitempty,oneof=domain ip"`
	Status inventory.AssetStatus `json:"status" binding:"required,oneof=active inactive all"`
	Search string                `json:"search"`
}

// SortSpecRequest is one sort column
type SortSpecRequest struct {
	ID   string `json:"id" binding:"required"`
	Desc bool   `json:"desc"`
}

// SortingRequest is the body of a sort change. An empty list clears sorting.
type SortingRequest struct {
	Sorting []SortSpecRequest `json:"sorting" binding:"max=1,dive"`
}

// ToggleSortRequest is the body of a header click
type ToggleSortRequest struct {
	Column string `json:"column" binding:"required"`
}

// ColumnFiltersRequest is the body of a column filter edit
type ColumnFiltersRequest struct {
	ColumnFilters []tableview.ColumnFilter `json:"columnFilters"`
}

// SelectionRequest selects or unselects rows
type SelectionRequest struct {
	IDs      []string `json:"ids" binding:"required,min=1"`
	Selected bool     `json:"selected"`
}

// VisibilityRequest shows or hides a column
type VisibilityRequest struct {
	Column  string `json:"column" binding:"required"`
	Visible bool   `json:"visible"`
}

// SimpleTableQuery are the query parameters of the simple table
type SimpleTableQuery struct {
	Type    inventory.AssetType   `form:"type" binding:"omitempty,oneof=domain ip"`
	Status  inventory.AssetStatus `form:"status" binding:"omitempty,oneof=active inactive all"`
	Refresh bool                  `form:"refresh"`
}

// AssetURI are the path parameters of the asset detail
type AssetURI struct {
	Type inventory.AssetType `uri:"type" binding:"required,oneof=domain ip"`
	ID   string              `uri:"id" binding:"required"`
}

func (r SortingRequest) toSorting() inventory.SortingState {
	out := make(inventory.SortingState, len(r.Sorting))
	for i, s := range r.Sorting {
		out[i] = inventory.SortSpec{ColumnID: s.ID, Desc: s.Desc}
	}
	return out
}
