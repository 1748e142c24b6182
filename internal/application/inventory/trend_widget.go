package inventory

import (
	"context"
	"time"

	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// TrendView is the chart-ready trend series.
type TrendView struct {
	Period      inventory.TrendPeriod  `json:"period"`
	Mode        inventory.ViewMode     `json:"mode"`
	Granularity inventory.Granularity  `json:"granularity"`
	Points      []inventory.ChartPoint `json:"points"`
	Summary     inventory.TrendSummary `json:"summary"`
}

// TrendWidget loads discovery trends, cached per period.
type TrendWidget struct {
	client TrendsAPI
	cache  *cache.TtlCache[inventory.TrendPeriod, *inventory.AssetTrends]
	now    func() time.Time
	logger *zap.Logger
}

// NewTrendWidget creates a trend widget. now defaults to time.Now.
func NewTrendWidget(client TrendsAPI, c *cache.TtlCache[inventory.TrendPeriod, *inventory.AssetTrends], now func() time.Time, logger *zap.Logger) *TrendWidget {
	if c == nil {
		c = cache.New[inventory.TrendPeriod, *inventory.AssetTrends]("trends")
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrendWidget{client: client, cache: c, now: now, logger: logger}
}

// Load returns the cleaned series for period in the given view mode. Switching
// mode reuses the cached response.
func (w *TrendWidget) Load(ctx context.Context, period inventory.TrendPeriod, mode inventory.ViewMode) (*TrendView, error) {
	trends, ok := w.cache.Get(period)
	if !ok {
		var err error
		trends, err = w.client.Trends(ctx, period, inventory.GranularityDaily)
		if err != nil {
			w.logger.Warn("Failed to fetch asset trends", zap.String("period", string(period)), zap.Error(err))
			return nil, err
		}
		w.cache.Set(period, trends)
	}

	return &TrendView{
		Period:      period,
		Mode:        mode,
		Granularity: inventory.GranularityDaily,
		Points:      inventory.SelectSeries(trends.Data, period, mode, w.now()),
		Summary:     trends.Summary,
	}, nil
}
