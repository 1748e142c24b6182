// Package inventorytest builds randomized inventory fixtures for tests.
package inventorytest

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/easm/dashboard/internal/domain/inventory"
)

var faker = gofakeit.New(0)

// Asset returns a random asset of the given type
func Asset(typ inventory.AssetType) inventory.Asset {
	identifier := faker.DomainName()
	if typ == inventory.AssetTypeIP {
		identifier = faker.IPv4Address()
	}
	first := faker.DateRange(time.Now().AddDate(0, -6, 0), time.Now().AddDate(0, 0, -7)).UTC()
	last := faker.DateRange(first, time.Now()).UTC()
	ports := faker.Number(0, 20)
	return inventory.Asset{
		ID:              faker.UUID(),
		Type:            typ,
		Identifier:      identifier,
		IsActive:        faker.Bool(),
		PortStats:       &inventory.PortStats{TotalOpenPorts: ports, UniquePortCount: ports},
		ServiceStats:    &inventory.ServiceStats{TotalServices: faker.Number(0, 10)},
		EndpointStats:   &inventory.EndpointStats{TotalEndpoints: faker.Number(0, 30)},
		FirstDiscovered: &first,
		LastSeen:        &last,
	}
}

// Assets returns n random assets alternating between domains and IPs
func Assets(n int) []inventory.Asset {
	out := make([]inventory.Asset, n)
	for i := range out {
		typ := inventory.AssetTypeDomain
		if i%2 == 1 {
			typ = inventory.AssetTypeIP
		}
		out[i] = Asset(typ)
	}
	return out
}

// Page wraps n random assets in an assets page reporting the given 1-based
// page, limit and total.
func Page(n, page, limit, total int) *inventory.AssetsPage {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &inventory.AssetsPage{
		Assets:     Assets(n),
		Totals:     inventory.AssetTotals{Combined: total},
		Pagination: inventory.PageInfo{Page: page, Limit: limit, Total: total, Pages: pages},
	}
}

// Stats returns an inventory stats resource with plausible counters
func Stats() *inventory.InventoryStats {
	return &inventory.InventoryStats{
		Stats: inventory.AggregateStats{
			Domains:   faker.Number(10, 5000),
			IPs:       inventory.IPCounts{Total: 200, Active: 150},
			Ports:     faker.Number(10, 500),
			Services:  faker.Number(10, 500),
			Endpoints: 40,
			TLS:       30,
			ApexDomains: []inventory.ApexDomainCount{
				{Domain: faker.DomainName(), SubdomainCount: faker.Number(1, 50)},
			},
		},
	}
}
