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

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", "/api/v1/jobs", 200, 15*time.Millisecond)
	c.ObserveRequest("GET", "/api/v1/jobs", 200, 5*time.Millisecond)
	c.IncError("not_found")
	c.IncRateLimited("login")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/v1/jobs", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.errors.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rateLimited.WithLabelValues("login")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", "/", 200, time.Millisecond)
		c.IncError("internal")
		c.IncRateLimited("apply")
	})
}

func TestHandlerExposesSeries(t *testing.T) {
	c := NewCollector()
	c.IncError("conflict")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `wasata_http_errors_total{code="conflict"} 1`)
}
