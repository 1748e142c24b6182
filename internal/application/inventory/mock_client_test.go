package inventory

import (
	"context"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Assets(ctx context.Context, query inventory.AssetQuery) (*inventory.AssetsPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.AssetsPage), args.Error(1)
}

func (m *MockClient) Stats(ctx context.Context) (*inventory.InventoryStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryStats), args.Error(1)
}

func (m *MockClient) Trends(ctx context.Context, period inventory.TrendPeriod, granularity inventory.Granularity) (*inventory.AssetTrends, error) {
	args := m.Called(ctx, period, granularity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.AssetTrends), args.Error(1)
}

func (m *MockClient) Search(ctx context.Context, query string) (*inventory.SearchResults, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.SearchResults), args.Error(1)
}

func (m *MockClient) AssetDetail(ctx context.Context, assetType inventory.AssetType, id string) (*inventory.Asset, error) {
	args := m.Called(ctx, assetType, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Asset), args.Error(1)
}

func (m *MockClient) Network(ctx context.Context, assetID string) (*inventory.NetworkGraph, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.NetworkGraph), args.Error(1)
}

func (m *MockClient) Organization(ctx context.Context) (*identity.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockClient) UpdateOrganization(ctx context.Context, update inventory.OrganizationUpdate) (*inventory.OrganizationUpdated, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.OrganizationUpdated), args.Error(1)
}

func (m *MockClient) AddApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ApexDomainChange), args.Error(1)
}

func (m *MockClient) RemoveApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ApexDomainChange), args.Error(1)
}
