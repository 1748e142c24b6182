// Package inventory defines the asset inventory read model and the view
// state (pagination, filters, sorting) the dashboard controllers operate on.
package inventory

import (
	"encoding/json"
	"time"
)

// AssetType distinguishes domains from IP addresses
type AssetType string

const (
	AssetTypeDomain AssetType = "domain"
	AssetTypeIP     AssetType = "ip"
)

// IsValid reports whether t is a known asset type
func (t AssetType) IsValid() bool {
	return t == AssetTypeDomain || t == AssetTypeIP
}

// AssetStatus is the activity filter the backend understands
type AssetStatus string

const (
	StatusActive   AssetStatus = "active"
	StatusInactive AssetStatus = "inactive"
	StatusAll      AssetStatus = "all"
)

// IsValid reports whether s is a known status filter
func (s AssetStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive || s == StatusAll
}

// PortStats summarizes open ports on an asset
type PortStats struct {
	TotalOpenPorts  int   `json:"totalOpenPorts"`
	UniquePortCount int   `json:"uniquePortCount"`
	UniqueOpenPorts []int `json:"uniqueOpenPorts,omitempty"`
}

// ServiceStats summarizes fingerprinted services
type ServiceStats struct {
	TotalServices      int `json:"totalServices"`
	UniqueServiceCount int `json:"uniqueServiceCount"`
}

// SchemeCounts splits endpoints by scheme
type SchemeCounts struct {
	HTTP  int `json:"http"`
	HTTPS int `json:"https"`
}

// EndpointStats summarizes web endpoints
type EndpointStats struct {
	TotalEndpoints int          `json:"totalEndpoints"`
	Schemes        SchemeCounts `json:"schemes"`
}

// CertificateStats summarizes TLS certificates
type CertificateStats struct {
	TotalCertificates int `json:"totalCertificates"`
	ValidCertificates int `json:"validCertificates"`
	ExpiringSoon      int `json:"expiringSoon"`
}

// RelatedDomain links an IP asset to the domains resolving to it
type RelatedDomain struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	IsApex bool   `json:"isApex"`
}

// Asset is a discovered domain or IP. Assets are read-only here: they are
// produced by the discovery backend and only ever re-fetched.
type Asset struct {
	ID               string            `json:"id"`
	Type             AssetType         `json:"type"`
	Identifier       string            `json:"identifier"`
	Status           string            `json:"status,omitempty"`
	IsActive         bool              `json:"isActive"`
	IsApex           *bool             `json:"isApex,omitempty"`
	PortStats        *PortStats        `json:"portStats,omitempty"`
	ServiceStats     *ServiceStats     `json:"serviceStats,omitempty"`
	EndpointStats    *EndpointStats    `json:"endpointStats,omitempty"`
	CertificateStats *CertificateStats `json:"certificateStats,omitempty"`
	FirstDiscovered  *time.Time        `json:"firstDiscovered,omitempty"`
	LastSeen         *time.Time        `json:"lastSeen,omitempty"`
	RelatedIPs       []string          `json:"relatedIps,omitempty"`
	OpenPorts        []int             `json:"openPorts,omitempty"`
	RelatedDomains   []RelatedDomain   `json:"relatedDomains,omitempty"`
	Classification   json.RawMessage   `json:"classification,omitempty"`
}

// OpenPortCount returns the number of open ports, 0 when unknown
func (a *Asset) OpenPortCount() int {
	if a.PortStats == nil {
		return 0
	}
	return a.PortStats.TotalOpenPorts
}

// ServiceCount returns the number of services, 0 when unknown
func (a *Asset) ServiceCount() int {
	if a.ServiceStats == nil {
		return 0
	}
	return a.ServiceStats.TotalServices
}

// EndpointCount returns the number of endpoints, 0 when unknown
func (a *Asset) EndpointCount() int {
	if a.EndpointStats == nil {
		return 0
	}
	return a.EndpointStats.TotalEndpoints
}

// StatusLabel is the display status derived from IsActive
func (a *Asset) StatusLabel() string {
	if a.IsActive {
		return "Active"
	}
	return "Inactive"
}
