package inventory

import (
	"fmt"
	"sort"
	"time"
)

// TrendPeriod is the look-back window of a trend chart
type TrendPeriod string

const (
	Period7d  TrendPeriod = "7d"
	Period30d TrendPeriod = "30d"
	Period90d TrendPeriod = "90d"
)

// Days returns the window length in days
func (p TrendPeriod) Days() int {
	switch p {
	case Period7d:
		return 7
	case Period30d:
		return 30
	default:
		return 90
	}
}

// ParseTrendPeriod parses "7d", "30d" or "90d"; an empty string selects 90d
func ParseTrendPeriod(s string) (TrendPeriod, error) {
	switch TrendPeriod(s) {
	case Period7d, Period30d, Period90d:
		return TrendPeriod(s), nil
	case "":
		return Period90d, nil
	}
	return "", fmt.Errorf("unknown trend period %q", s)
}

// Granularity is the bucket size of trend points
type Granularity string

const (
	GranularityDaily  Granularity = "daily"
	GranularityHourly Granularity = "hourly"
)

// ViewMode selects which trend series a chart plots
type ViewMode string

const (
	ViewCumulative ViewMode = "cumulative"
	ViewNew        ViewMode = "new"
)

// ParseViewMode parses "cumulative" or "new"; empty selects cumulative
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewCumulative, ViewNew:
		return ViewMode(s), nil
	case "":
		return ViewCumulative, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// TrendPoint is one bucket of the discovery time series
type TrendPoint struct {
	Date                string `json:"date"`
	Domains             int    `json:"domains"`
	NewDomains          int    `json:"newDomains"`
	ApexDomains         int    `json:"apexDomains"`
	IPs                 int    `json:"ips"`
	NewIPs              int    `json:"newIps"`
	ActiveIPs           int    `json:"activeIps"`
	Ports               int    `json:"ports"`
	NewPorts            int    `json:"newPorts"`
	Endpoints           int    `json:"endpoints"`
	NewEndpoints        int    `json:"newEndpoints"`
	HTTPSEndpoints      int    `json:"httpsEndpoints"`
	TotalAssets         int    `json:"totalAssets"`
	CumulativeDomains   int    `json:"cumulativeDomains"`
	CumulativeIPs       int    `json:"cumulativeIps"`
	CumulativePorts     int    `json:"cumulativePorts"`
	CumulativeEndpoints int    `json:"cumulativeEndpoints"`
	CumulativeTotal     int    `json:"cumulativeTotal"`
}

// DateRange is the inclusive range covered by a trend response
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DiscoveryTotals counts assets discovered within the period
type DiscoveryTotals struct {
	DomainsDiscovered   int `json:"domainsDiscovered"`
	IPsDiscovered       int `json:"ipsDiscovered"`
	PortsDiscovered     int `json:"portsDiscovered"`
	EndpointsDiscovered int `json:"endpointsDiscovered"`
}

// CurrentTotals are the totals at the end of the period
type CurrentTotals struct {
	Domains   int `json:"domains"`
	IPs       int `json:"ips"`
	Ports     int `json:"ports"`
	Endpoints int `json:"endpoints"`
}

// TrendSummary describes a trend response
type TrendSummary struct {
	Period          string          `json:"period"`
	Granularity     string          `json:"granularity"`
	TotalDataPoints int             `json:"totalDataPoints"`
	DateRange       DateRange       `json:"dateRange"`
	Totals          DiscoveryTotals `json:"totals"`
	CurrentTotals   CurrentTotals   `json:"currentTotals"`
	FirstScanDate   string          `json:"firstScanDate,omitempty"`
}

// AssetTrends is the response of the trends endpoint
type AssetTrends struct {
	Data    []TrendPoint `json:"data"`
	Summary TrendSummary `json:"summary"`
}

// ChartPoint is one plotted point of a two-series chart
type ChartPoint struct {
	Date    time.Time `json:"date"`
	Domains int       `json:"domains"`
	IPs     int       `json:"ips"`
}

var trendDateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTrendDate(s string) (time.Time, bool) {
	for _, layout := range trendDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type datedPoint struct {
	at    time.Time
	point TrendPoint
}

// CleanTrendPoints prepares raw trend data for plotting. Points with an
// unparseable or future date are dropped, negative counts are clamped to
// zero, the rest is ordered by date, limited to the period window ending
// at now, and trimmed to the last period.Days() points.
func CleanTrendPoints(points []TrendPoint, period TrendPeriod, now time.Time) []ChartPoint {
	start := now.AddDate(0, 0, -period.Days())

	dated := make([]datedPoint, 0, len(points))
	for _, p := range points {
		at, ok := parseTrendDate(p.Date)
		if !ok || at.After(now) || at.Before(start) {
			continue
		}
		dated = append(dated, datedPoint{at: at, point: clampTrendPoint(p)})
	}

	sort.SliceStable(dated, func(i, j int) bool { return dated[i].at.Before(dated[j].at) })

	if limit := period.Days(); len(dated) > limit {
		dated = dated[len(dated)-limit:]
	}

	out := make([]ChartPoint, 0, len(dated))
	for _, d := range dated {
		out = append(out, ChartPoint{Date: d.at, Domains: d.point.Domains, IPs: d.point.IPs})
	}
	return out
}

// SelectSeries projects cleaned points into the series of the given view
// mode: cumulative totals or per-bucket discoveries.
func SelectSeries(points []TrendPoint, period TrendPeriod, mode ViewMode, now time.Time) []ChartPoint {
	projected := make([]TrendPoint, len(points))
	for i, p := range points {
		projected[i] = p
		if mode == ViewCumulative {
			projected[i].Domains = p.CumulativeDomains
			projected[i].IPs = p.CumulativeIPs
		}
	}
	return CleanTrendPoints(projected, period, now)
}

func clampTrendPoint(p TrendPoint) TrendPoint {
	for _, v := range []*int{
		&p.Domains, &p.NewDomains, &p.ApexDomains, &p.IPs, &p.NewIPs, &p.ActiveIPs,
		&p.Ports, &p.NewPorts, &p.Endpoints, &p.NewEndpoints, &p.HTTPSEndpoints, &p.TotalAssets,
		&p.CumulativeDomains, &p.CumulativeIPs, &p.CumulativePorts, &p.CumulativeEndpoints, &p.CumulativeTotal,
	} {
		if *v < 0 {
			*v = 0
		}
	}
	return p
}
