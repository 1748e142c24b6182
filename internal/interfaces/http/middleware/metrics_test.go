package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type requestRecorder struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (r *requestRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, recordedRequest{method, route, status})
}

func TestHTTPMetrics_UsesRoutePattern(t *testing.T) {
	rec := &requestRecorder{}
	r := gin.New()
	r.Use(HTTPMetrics(rec))
	r.GET("/assets/:type/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/assets/domain/a1", "/assets/ip/b2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, rec.seen, 3)
	assert.Equal(t, recordedRequest{http.MethodGet, "/assets/:type/:id", http.StatusOK}, rec.seen[0])
	assert.Equal(t, "/assets/:type/:id", rec.seen[1].route)
	assert.Equal(t, recordedRequest{http.MethodGet, UnmatchedRoute, http.StatusNotFound}, rec.seen[2])
}
