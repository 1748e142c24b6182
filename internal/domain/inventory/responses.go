package inventory

import (
	"encoding/json"
	"time"

	"github.com/easm/dashboard/internal/domain/identity"
)

// AssetTotals counts assets by type across the whole organization
type AssetTotals struct {
	Domains  int `json:"domains"`
	IPs      int `json:"ips"`
	Combined int `json:"combined"`
}

// PageInfo is the backend's 1-based pagination block
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// AssetsPage is one page of the assets list
type AssetsPage struct {
	Organization *identity.Organization `json:"organization,omitempty"`
	Assets       []Asset                `json:"assets"`
	Totals       AssetTotals            `json:"totals"`
	Pagination   PageInfo               `json:"pagination"`
}

// ScanSummary counts totals and new findings of one scan
type ScanSummary struct {
	TotalDomains   int `json:"totalDomains"`
	NewDomains     int `json:"newDomains"`
	TotalIPs       int `json:"totalIps"`
	NewIPs         int `json:"newIps"`
	TotalOpenPorts int `json:"totalOpenPorts"`
	NewOpenPorts   int `json:"newOpenPorts"`
	TotalServices  int `json:"totalServices"`
	NewServices    int `json:"newServices"`
	TotalEndpoints int `json:"totalEndpoints"`
	NewEndpoints   int `json:"newEndpoints"`
}

// LastScan describes the most recent completed scan
type LastScan struct {
	ID             string      `json:"id"`
	ScanDate       *time.Time  `json:"scanDate,omitempty"`
	CompletionDate *time.Time  `json:"completionDate,omitempty"`
	Summary        ScanSummary `json:"summary"`
}

// IPCounts splits IPs into total and active
type IPCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// PortCount is one bar of the port distribution
type PortCount struct {
	Port  int `json:"port"`
	Count int `json:"count"`
}

// ApexDomainCount counts subdomains under one apex domain
type ApexDomainCount struct {
	Domain         string `json:"domain"`
	SubdomainCount int    `json:"subdomainCount"`
}

// AggregateStats are the organization-wide counters
type AggregateStats struct {
	Domains          int               `json:"domains"`
	IPs              IPCounts          `json:"ips"`
	Ports            int               `json:"ports"`
	Services         int               `json:"services"`
	Endpoints        int               `json:"endpoints"`
	TLS              int               `json:"tls"`
	PortDistribution []PortCount       `json:"portDistribution"`
	ApexDomains      []ApexDomainCount `json:"apexDomains"`
}

// InventoryStats is the organization-level statistics resource
type InventoryStats struct {
	Organization identity.Organization `json:"organization"`
	LastScan     *LastScan             `json:"lastScan,omitempty"`
	Stats        AggregateStats        `json:"stats"`
}

// SearchGroups are search hits grouped by asset kind
type SearchGroups struct {
	Domains   []json.RawMessage `json:"domains"`
	IPs       []json.RawMessage `json:"ips"`
	Endpoints []json.RawMessage `json:"endpoints"`
	Services  []json.RawMessage `json:"services"`
}

// SearchResults is the response of the search endpoint
type SearchResults struct {
	Query        string       `json:"query"`
	Results      SearchGroups `json:"results"`
	TotalResults int          `json:"totalResults"`
}

// NetworkGraph is the node/edge graph around the organization or one asset
type NetworkGraph struct {
	Nodes       []json.RawMessage `json:"nodes"`
	Edges       []json.RawMessage `json:"edges"`
	Stats       json.RawMessage   `json:"stats,omitempty"`
	CenterAsset json.RawMessage   `json:"centerAsset,omitempty"`
}

// OrganizationUpdate is the body of an organization update
type OrganizationUpdate struct {
	Name         *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ScanSettings map[string]any `json:"scanSettings,omitempty"`
}

// OrganizationUpdated is returned by an organization update
type OrganizationUpdated struct {
	Message      string                `json:"message"`
	Organization identity.Organization `json:"organization"`
}

// ApexDomainChange is returned when an apex domain is added or removed
type ApexDomainChange struct {
	Message          string   `json:"message"`
	Domain           string   `json:"domain,omitempty"`
	RemovedDomain    string   `json:"removedDomain,omitempty"`
	ApexDomains      []string `json:"apexDomains"`
	ApexDomainsCount int      `json:"apexDomainsCount"`
	PrimaryDomain    string   `json:"primaryDomain,omitempty"`
}
