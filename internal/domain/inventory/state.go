package inventory

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PageSizeOptions are the page sizes offered by the table pager.
// The fetch layer accepts any positive size.
var PageSizeOptions = []int{10, 20, 30, 40, 50, 100}

var validate = validator.New()

// PaginationState is the 0-based page position of a table view
type PaginationState struct {
	PageIndex int `json:"pageIndex" validate:"gte=0"`
	PageSize  int `json:"pageSize" validate:"gt=0"`
}

// BackendPage is the 1-based page number the discovery backend expects
func (p PaginationState) BackendPage() int {
	return p.PageIndex + 1
}

// Validate checks the pagination invariants
func (p PaginationState) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid pagination: %w", err)
	}
	return nil
}

// FiltersState is the canonical filter shape. An empty Type means all types.
type FiltersState struct {
	Type   AssetType   `json:"type,omitempty" validate:"omitempty,oneof=domain ip"`
	Status AssetStatus `json:"status" validate:"required,oneof=active inactive all"`
	Search string      `json:"search,omitempty"`
}

// Validate checks the filter invariants
func (f FiltersState) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	return nil
}

// CacheKey is the "{type}-{status}" signature used by per-view caches.
// Missing dimensions fall back to "all" and "active".
func (f FiltersState) CacheKey() string {
	typ := string(f.Type)
	if typ == "" {
		typ = "all"
	}
	status := string(f.Status)
	if status == "" {
		status = string(StatusActive)
	}
	return typ + "-" + status
}

// Equal reports whether two filter states select the same rows
func (f FiltersState) Equal(other FiltersState) bool {
	return f.Type == other.Type && f.Status == other.Status && f.Search == other.Search
}

// SortSpec orders rows by one column
type SortSpec struct {
	ColumnID string `json:"id" validate:"required"`
	Desc     bool   `json:"desc"`
}

// SortingState is an ordered list of sort specs, zero or one in practice
type SortingState []SortSpec

// Clone returns an independent copy
func (s SortingState) Clone() SortingState {
	if s == nil {
		return nil
	}
	out := make(SortingState, len(s))
	copy(out, s)
	return out
}

// AssetQuery is the parameter set sent to the assets list endpoint
type AssetQuery struct {
	Type   AssetType
	Status AssetStatus
	Page   int
	Limit  int
	Sort   string
	Order  string
}

// NewAssetQuery maps view state to backend parameters: the page becomes
// 1-based and sorting is only attached when requested.
func NewAssetQuery(p PaginationState, f FiltersState, s SortingState, serverSideSort bool) AssetQuery {
	q := AssetQuery{
		Type:   f.Type,
		Status: f.Status,
		Page:   p.BackendPage(),
		Limit:  p.PageSize,
	}
	if serverSideSort && len(s) > 0 {
		q.Sort = s[0].ColumnID
		q.Order = "asc"
		if s[0].Desc {
			q.Order = "desc"
		}
	}
	return q
}
