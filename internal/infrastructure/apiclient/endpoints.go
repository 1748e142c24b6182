package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/sessionstore"
)

// Login authenticates and persists the issued token pair.
func (c *Client) Login(ctx context.Context, creds identity.Credentials) (*identity.AuthResponse, error) {
	var resp identity.AuthResponse
	err := c.call(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, map[string]string{
		sessionstore.KeyAccessToken:     resp.Tokens.AccessToken,
		sessionstore.KeyRefreshToken:    resp.Tokens.RefreshToken,
		sessionstore.KeyUserEmail:       creds.Email,
		sessionstore.KeyIsAuthenticated: "true",
	}); err != nil {
		return nil, fmt.Errorf("persisting tokens: %w", err)
	}
	c.setToken(resp.Tokens.AccessToken)

	return &resp, nil
}

// Register creates an account and organization. No tokens are stored.
func (c *Client) Register(ctx context.Context, reg identity.Registration) (*identity.AuthResponse, error) {
	var resp identity.AuthResponse
	if err := c.call(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   reg,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify checks the held token and returns its user and organization.
func (c *Client) Verify(ctx context.Context) (*identity.VerifyResponse, error) {
	var resp identity.VerifyResponse
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/auth/verify"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout drops the token and clears every persisted session key.
func (c *Client) Logout(ctx context.Context) error {
	c.setToken("")
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session keys: %w", err)
	}
	return nil
}

// Stats fetches the aggregate inventory statistics.
func (c *Client) Stats(ctx context.Context) (*inventory.InventoryStats, error) {
	var resp inventory.InventoryStats
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/inventory/stats"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trends fetches the discovery time series.
func (c *Client) Trends(ctx context.Context, period inventory.TrendPeriod, granularity inventory.Granularity) (*inventory.AssetTrends, error) {
	q := url.Values{}
	if period != "" {
		q.Set("period", string(period))
	}
	if granularity != "" {
		q.Set("granularity", string(granularity))
	}

	var resp inventory.AssetTrends
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/inventory/trends", Query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Assets fetches one page of the asset list. An empty type means all types.
func (c *Client) Assets(ctx context.Context, query inventory.AssetQuery) (*inventory.AssetsPage, error) {
	q := url.Values{}
	if query.Type != "" {
		q.Set("type", string(query.Type))
	}
	if query.Status != "" {
		q.Set("status", string(query.Status))
	}
	if query.Page > 0 {
		q.Set("page", strconv.Itoa(query.Page))
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Sort != "" {
		q.Set("sort", query.Sort)
		q.Set("order", query.Order)
	}

	var resp inventory.AssetsPage
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/inventory/assets", Query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search runs a free-text asset search.
func (c *Client) Search(ctx context.Context, query string) (*inventory.SearchResults, error) {
	var resp inventory.SearchResults
	if err := c.call(ctx, Request{
		Method: http.MethodGet,
		Path:   "/inventory/search",
		Query:  url.Values{"query": {query}},
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AssetDetail fetches one asset with its relations.
func (c *Client) AssetDetail(ctx context.Context, assetType inventory.AssetType, id string) (*inventory.Asset, error) {
	var resp inventory.Asset
	if err := c.call(ctx, Request{
		Method: http.MethodGet,
		Path:   "/inventory/asset/" + url.PathEscape(string(assetType)) + "/" + url.PathEscape(id),
		Route:  "/inventory/asset/{type}/{id}",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Network fetches the relationship graph, centred on assetID when given.
func (c *Client) Network(ctx context.Context, assetID string) (*inventory.NetworkGraph, error) {
	req := Request{Method: http.MethodGet, Path: "/inventory/network"}
	if assetID != "" {
		req.Path += "/" + url.PathEscape(assetID)
		req.Route = "/inventory/network/{assetId}"
	}

	var resp inventory.NetworkGraph
	if err := c.call(ctx, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Organization fetches the caller's organization.
func (c *Client) Organization(ctx context.Context) (*identity.Organization, error) {
	var resp identity.Organization
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/organization"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateOrganization changes the organization name or scan settings.
func (c *Client) UpdateOrganization(ctx context.Context, update inventory.OrganizationUpdate) (*inventory.OrganizationUpdated, error) {
	var resp inventory.OrganizationUpdated
	if err := c.call(ctx, Request{
		Method: http.MethodPut,
		Path:   "/organization",
		Body:   update,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddApexDomain adds an apex domain to the organization.
func (c *Client) AddApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	var resp inventory.ApexDomainChange
	if err := c.call(ctx, Request{
		Method: http.MethodPost,
		Path:   "/organization/apex-domains",
		Body:   map[string]string{"domain": domain},
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveApexDomain removes an apex domain from the organization.
func (c *Client) RemoveApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	var resp inventory.ApexDomainChange
	if err := c.call(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/organization/apex-domains/" + url.PathEscape(domain),
		Route:  "/organization/apex-domains/{domain}",
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
