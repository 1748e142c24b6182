package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var trendNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func trendFixture() *inventory.AssetTrends {
	return &inventory.AssetTrends{
		Data: []inventory.TrendPoint{
			{Date: "2026-03-09", Domains: 2, IPs: 1, CumulativeDomains: 12, CumulativeIPs: 6},
			{Date: "2026-03-08", Domains: 3, IPs: -4, CumulativeDomains: 10, CumulativeIPs: 5},
			{Date: "2026-03-20", Domains: 9, IPs: 9, CumulativeDomains: 99, CumulativeIPs: 99},
			{Date: "not-a-date", Domains: 1, IPs: 1},
		},
		Summary: inventory.TrendSummary{Period: "7d", Granularity: "daily", TotalDataPoints: 4},
	}
}

func TestTrendWidget_LoadCleansSeries(t *testing.T) {
	client := new(MockClient)
	client.On("Trends", mock.Anything, inventory.Period7d, inventory.GranularityDaily).Return(trendFixture(), nil).Once()

	widget := NewTrendWidget(client, nil, func() time.Time { return trendNow }, nil)
	view, err := widget.Load(context.Background(), inventory.Period7d, inventory.ViewNew)
	require.NoError(t, err)

	assert.Equal(t, inventory.GranularityDaily, view.Granularity)
	assert.Equal(t, 4, view.Summary.TotalDataPoints)
	require.Len(t, view.Points, 2)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), view.Points[0].Date)
	assert.Equal(t, 3, view.Points[0].Domains)
	assert.Zero(t, view.Points[0].IPs)
	assert.Equal(t, 2, view.Points[1].Domains)
}

func TestTrendWidget_ModeSwitchReusesResponse(t *testing.T) {
	client := new(MockClient)
	client.On("Trends", mock.Anything, inventory.Period7d, inventory.GranularityDaily).Return(trendFixture(), nil).Once()

	widget := NewTrendWidget(client, nil, func() time.Time { return trendNow }, nil)
	_, err := widget.Load(context.Background(), inventory.Period7d, inventory.ViewNew)
	require.NoError(t, err)

	view, err := widget.Load(context.Background(), inventory.Period7d, inventory.ViewCumulative)
	require.NoError(t, err)
	assert.Equal(t, inventory.ViewCumulative, view.Mode)
	require.Len(t, view.Points, 2)
	assert.Equal(t, 10, view.Points[0].Domains)
	assert.Equal(t, 6, view.Points[1].IPs)

	client.AssertNumberOfCalls(t, "Trends", 1)
}

func TestTrendWidget_CachesPerPeriod(t *testing.T) {
	client := new(MockClient)
	client.On("Trends", mock.Anything, inventory.Period7d, inventory.GranularityDaily).Return(trendFixture(), nil).Once()
	client.On("Trends", mock.Anything, inventory.Period30d, inventory.GranularityDaily).Return(trendFixture(), nil).Once()

	widget := NewTrendWidget(client, nil, func() time.Time { return trendNow }, nil)
	ctx := context.Background()
	for _, p := range []inventory.TrendPeriod{inventory.Period7d, inventory.Period30d, inventory.Period7d} {
		_, err := widget.Load(ctx, p, inventory.ViewCumulative)
		require.NoError(t, err)
	}
	client.AssertExpectations(t)
}

func TestTrendWidget_ErrorNotCached(t *testing.T) {
	client := new(MockClient)
	client.On("Trends", mock.Anything, inventory.Period90d, inventory.GranularityDaily).Return(nil, apiclient.ErrNetwork).Once()
	client.On("Trends", mock.Anything, inventory.Period90d, inventory.GranularityDaily).Return(trendFixture(), nil).Once()

	widget := NewTrendWidget(client, nil, func() time.Time { return trendNow }, nil)
	_, err := widget.Load(context.Background(), inventory.Period90d, inventory.ViewNew)
	assert.ErrorIs(t, err, apiclient.ErrNetwork)

	view, err := widget.Load(context.Background(), inventory.Period90d, inventory.ViewNew)
	require.NoError(t, err)
	assert.Len(t, view.Points, 2)
}
