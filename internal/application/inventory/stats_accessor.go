package inventory

import (
	"context"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/flight"
)

// StatsResource names the stats resource in logs and metrics.
const StatsResource = "inventory_stats"

// StatsAccessor shares one stats fetch between every widget of the overview.
type StatsAccessor struct {
	*flight.Coordinator[*inventory.InventoryStats]
}

// NewStatsAccessor creates the shared accessor.
func NewStatsAccessor(client StatsAPI, opts ...flight.Option) *StatsAccessor {
	return &StatsAccessor{
		Coordinator: flight.New[*inventory.InventoryStats](StatsResource, client.Stats, opts...),
	}
}

// Cards returns the overview summary cards built from the shared stats.
func (a *StatsAccessor) Cards(ctx context.Context) ([]inventory.OverviewCard, error) {
	stats, err := a.Request(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.BuildOverviewCards(stats), nil
}
