// Package inventory holds the view controllers of the asset dashboard: the
// paginated asset table, the cached simple table, the shared stats accessor,
// the trend widget and the search, detail, network and organization services.
package inventory

import (
	"context"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/inventory"
)

// AssetsAPI lists assets page by page.
type AssetsAPI interface {
	Assets(ctx context.Context, query inventory.AssetQuery) (*inventory.AssetsPage, error)
}

// StatsAPI loads aggregate statistics.
type StatsAPI interface {
	Stats(ctx context.Context) (*inventory.InventoryStats, error)
}

// TrendsAPI loads discovery time series.
type TrendsAPI interface {
	Trends(ctx context.Context, period inventory.TrendPeriod, granularity inventory.Granularity) (*inventory.AssetTrends, error)
}

// SearchAPI runs free-text searches.
type SearchAPI interface {
	Search(ctx context.Context, query string) (*inventory.SearchResults, error)
}

// DetailAPI loads one asset.
type DetailAPI interface {
	AssetDetail(ctx context.Context, assetType inventory.AssetType, id string) (*inventory.Asset, error)
}

// NetworkAPI loads the relationship graph.
type NetworkAPI interface {
	Network(ctx context.Context, assetID string) (*inventory.NetworkGraph, error)
}

// OrganizationAPI reads and changes the organization.
type OrganizationAPI interface {
	Organization(ctx context.Context) (*identity.Organization, error)
	UpdateOrganization(ctx context.Context, update inventory.OrganizationUpdate) (*inventory.OrganizationUpdated, error)
	AddApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error)
	RemoveApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error)
}

// Client is everything the views need from the backend.
type Client interface {
	AssetsAPI
	StatsAPI
	TrendsAPI
	SearchAPI
	DetailAPI
	NetworkAPI
	OrganizationAPI
}
