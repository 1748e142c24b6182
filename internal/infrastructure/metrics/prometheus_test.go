package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordsCounters(t *testing.T) {
	c := NewCollector(Config{})

	c.RecordUpstream("/inventory/assets", 200, "ok", 120*time.Millisecond)
	c.RecordUpstream("/inventory/assets", 500, "server_error", 80*time.Millisecond)
	c.RecordCacheLookup("simple-table", true)
	c.RecordCacheLookup("simple-table", false)
	c.RecordCacheLookup("simple-table", false)
	c.RecordSingleFlight("inventory-stats", true)
	c.RecordSessionTransition("anonymous")
	c.RecordHTTPRequest("GET", "/api/v1/assets/:type/:id", 200, 15*time.Millisecond)
	c.RecordHTTPRequest("GET", "/api/v1/assets/:type/:id", 404, 5*time.Millisecond)

	assert.Equal(t, 2.0, c.CounterValue(MetricUpstreamRequestsTotal, map[string]string{"endpoint": "/inventory/assets"}))
	assert.Equal(t, 1.0, c.CounterValue(MetricUpstreamRequestsTotal, map[string]string{"status": "500"}))
	assert.Equal(t, 2.0, c.CounterValue(MetricCacheLookupsTotal, map[string]string{"result": "miss"}))
	assert.Equal(t, 1.0, c.CounterValue(MetricSingleFlightTotal, map[string]string{"shared": "true"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sessionTransitions.WithLabelValues("anonymous")))
	assert.Equal(t, 2.0, c.CounterValue(MetricHTTPRequestsTotal, map[string]string{"route": "/api/v1/assets/:type/:id"}))
	assert.Equal(t, 1, testutil.CollectAndCount(c.httpDuration))
	assert.Zero(t, c.CounterValue("missing_total", nil))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(Config{Namespace: "test"})
	c.RecordCacheLookup("trends", true)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `test_cache_lookups_total{cache="trends",result="hit"} 1`)
}
