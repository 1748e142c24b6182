// Package tableview adapts the canonical asset table state (pagination,
// filters, sorting) to the column-oriented shape a table renderer works
// with, and back.
package tableview

import (
	"github.com/easm/dashboard/internal/domain/inventory"
)

// ColumnFilter is the filter of one table column. Value is a string for the
// identifier column and a list of strings for the type and status columns.
type ColumnFilter struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// CanonicalFiltersToColumnFilters derives the column filters shown by the
// table from the canonical filters.
func CanonicalFiltersToColumnFilters(f inventory.FiltersState) []ColumnFilter {
	out := make([]ColumnFilter, 0, 3)
	if f.Search != "" {
		out = append(out, ColumnFilter{ID: inventory.ColumnIdentifier, Value: f.Search})
	}
	if f.Type != "" {
		out = append(out, ColumnFilter{ID: inventory.ColumnType, Value: []string{string(f.Type)}})
	}
	if f.Status != "" && f.Status != inventory.StatusAll {
		out = append(out, ColumnFilter{ID: inventory.ColumnStatus, Value: []string{string(f.Status)}})
	}
	return out
}

// ColumnFilterEventToCanonicalFilters maps an edited set of column filters
// back to canonical filters. A missing identifier or type filter clears that
// dimension; a missing status filter keeps prev.Status.
func ColumnFilterEventToCanonicalFilters(prev inventory.FiltersState, filters []ColumnFilter) inventory.FiltersState {
	next := prev
	next.Search = ""
	next.Type = ""

	for _, cf := range filters {
		switch cf.ID {
		case inventory.ColumnIdentifier:
			next.Search = firstString(cf.Value)
		case inventory.ColumnType:
			next.Type = inventory.AssetType(firstString(cf.Value))
		case inventory.ColumnStatus:
			if s := firstString(cf.Value); s != "" {
				next.Status = inventory.AssetStatus(s)
			}
		}
	}
	return next
}

// PageCount is ceil(total/pageSize), or 0 when pageSize is not positive.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		if len(val) > 0 {
			return val[0]
		}
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
