package inventory

import (
	"sort"
	"strings"
	"time"
)

// Sortable column identifiers of the assets table
const (
	ColumnIdentifier      = "identifier"
	ColumnType            = "type"
	ColumnStatus          = "status"
	ColumnPorts           = "ports"
	ColumnServices        = "services"
	ColumnEndpoints       = "endpoints"
	ColumnFirstDiscovered = "firstDiscovered"
	ColumnLastSeen        = "lastSeen"
)

// FilterBySearch keeps assets whose identifier contains search, case-insensitively
func FilterBySearch(assets []Asset, search string) []Asset {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return assets
	}
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if strings.Contains(strings.ToLower(a.Identifier), search) {
			out = append(out, a)
		}
	}
	return out
}

// SortAssets returns a sorted copy of assets. Only the first sort spec is
// applied; unknown columns leave the backend order untouched.
func SortAssets(assets []Asset, sorting SortingState) []Asset {
	out := make([]Asset, len(assets))
	copy(out, assets)
	if len(sorting) == 0 {
		return out
	}
	less := assetLess(sorting[0].ColumnID)
	if less == nil {
		return out
	}
	desc := sorting[0].Desc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

func assetLess(column string) func(a, b *Asset) bool {
	switch column {
	case ColumnIdentifier:
		return func(a, b *Asset) bool { return a.Identifier < b.Identifier }
	case ColumnType:
		return func(a, b *Asset) bool { return a.Type < b.Type }
	case ColumnStatus:
		return func(a, b *Asset) bool { return !a.IsActive && b.IsActive }
	case ColumnPorts:
		return func(a, b *Asset) bool { return a.OpenPortCount() < b.OpenPortCount() }
	case ColumnServices:
		return func(a, b *Asset) bool { return a.ServiceCount() < b.ServiceCount() }
	case ColumnEndpoints:
		return func(a, b *Asset) bool { return a.EndpointCount() < b.EndpointCount() }
	case ColumnFirstDiscovered:
		return func(a, b *Asset) bool { return timeBefore(a.FirstDiscovered, b.FirstDiscovered) }
	case ColumnLastSeen:
		return func(a, b *Asset) bool { return timeBefore(a.LastSeen, b.LastSeen) }
	}
	return nil
}

// timeBefore orders missing timestamps first
func timeBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	}
	return a.Before(*b)
}
