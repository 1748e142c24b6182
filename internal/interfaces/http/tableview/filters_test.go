package tableview

import (
	"testing"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalFiltersToColumnFilters(t *testing.T) {
	tests := []struct {
		name     string
		filters  inventory.FiltersState
		expected []ColumnFilter
	}{
		{
			name:     "all statuses produce no filters",
			filters:  inventory.FiltersState{Status: inventory.StatusAll},
			expected: []ColumnFilter{},
		},
		{
			name:    "every dimension",
			filters: inventory.FiltersState{Type: inventory.AssetTypeIP, Status: inventory.StatusInactive, Search: "10.0"},
			expected: []ColumnFilter{
				{ID: "identifier", Value: "10.0"},
				{ID: "type", Value: []string{"ip"}},
				{ID: "status", Value: []string{"inactive"}},
			},
		},
		{
			name:     "status only",
			filters:  inventory.FiltersState{Status: inventory.StatusActive},
			expected: []ColumnFilter{{ID: "status", Value: []string{"active"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalFiltersToColumnFilters(tt.filters))
		})
	}
}

func TestColumnFilterEventToCanonicalFilters(t *testing.T) {
	prev := inventory.FiltersState{Type: inventory.AssetTypeDomain, Status: inventory.StatusActive, Search: "old"}

	tests := []struct {
		name     string
		filters  []ColumnFilter
		expected inventory.FiltersState
	}{
		{
			name:     "cleared filters keep status",
			filters:  nil,
			expected: inventory.FiltersState{Status: inventory.StatusActive},
		},
		{
			name: "array values take the first element",
			filters: []ColumnFilter{
				{ID: "type", Value: []string{"ip", "domain"}},
				{ID: "status", Value: []string{"inactive"}},
			},
			expected: inventory.FiltersState{Type: inventory.AssetTypeIP, Status: inventory.StatusInactive},
		},
		{
			name: "decoded JSON arrays and scalars",
			filters: []ColumnFilter{
				{ID: "identifier", Value: "acme"},
				{ID: "type", Value: "domain"},
				{ID: "status", Value: []any{"all"}},
			},
			expected: inventory.FiltersState{Type: inventory.AssetTypeDomain, Status: inventory.StatusAll, Search: "acme"},
		},
		{
			name:     "empty status keeps previous",
			filters:  []ColumnFilter{{ID: "status", Value: []string{}}},
			expected: inventory.FiltersState{Status: inventory.StatusActive},
		},
		{
			name:     "unknown columns are ignored",
			filters:  []ColumnFilter{{ID: "ports", Value: "22"}},
			expected: inventory.FiltersState{Status: inventory.StatusActive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColumnFilterEventToCanonicalFilters(prev, tt.filters))
		})
	}
}

func TestFilterMappingRoundTrip(t *testing.T) {
	for _, f := range []inventory.FiltersState{
		{Status: inventory.StatusAll},
		{Status: inventory.StatusActive, Search: "api"},
		{Type: inventory.AssetTypeIP, Status: inventory.StatusInactive},
	} {
		got := ColumnFilterEventToCanonicalFilters(inventory.FiltersState{Status: f.Status}, CanonicalFiltersToColumnFilters(f))
		assert.Equal(t, f, got)
	}
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(5, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 0, PageCount(11, 0))
	assert.Equal(t, 0, PageCount(11, -5))
}
