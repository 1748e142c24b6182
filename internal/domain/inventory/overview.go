package inventory

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// OverviewCard is one summary card of the overview page
type OverviewCard struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	RawValue int    `json:"rawValue"`
	NewCount int    `json:"newCount"`
	Footer   string `json:"footer"`
}

// FormatCompact renders large counts as 1.2K / 3.4M and groups digits otherwise
func FormatCompact(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return printer.Sprintf("%d", n)
	}
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// BuildOverviewCards derives the four overview cards from the stats resource.
// New counts come from the last scan summary and are zero when no scan ran.
func BuildOverviewCards(s *InventoryStats) []OverviewCard {
	if s == nil {
		return nil
	}
	var summary ScanSummary
	if s.LastScan != nil {
		summary = s.LastScan.Summary
	}
	st := s.Stats

	apex := len(st.ApexDomains)
	apexLabel := "apex domains"
	if apex == 1 {
		apexLabel = "apex domain"
	}

	return []OverviewCard{
		{
			Title:    "Domains",
			Value:    FormatCompact(st.Domains),
			RawValue: st.Domains,
			NewCount: summary.NewDomains,
			Footer:   printer.Sprintf("%d %s", apex, apexLabel),
		},
		{
			Title:    "IP Addresses",
			Value:    FormatCompact(st.IPs.Active),
			RawValue: st.IPs.Active,
			NewCount: summary.NewIPs,
			Footer:   printer.Sprintf("%d%% active (%d total)", percent(st.IPs.Active, st.IPs.Total), st.IPs.Total),
		},
		{
			Title:    "Open Ports",
			Value:    FormatCompact(st.Ports),
			RawValue: st.Ports,
			NewCount: summary.NewOpenPorts,
			Footer:   FormatCompact(st.Services) + " services running",
		},
		{
			Title:    "Web Endpoints",
			Value:    FormatCompact(st.Endpoints),
			RawValue: st.Endpoints,
			NewCount: summary.NewEndpoints,
			Footer:   printer.Sprintf("%d%% HTTPS secured", percent(st.TLS, st.Endpoints)),
		},
	}
}
