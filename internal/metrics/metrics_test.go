package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("/api/stops", "ok", 20*time.Millisecond)
	c.ObserveRequest("/api/stops", "ok", 30*time.Millisecond)
	c.ObserveRequest("/api/routes/shortest", "rejected", time.Millisecond)
	c.ObserveStale("graph")
	c.ObserveHighlight(3, 2, 1, 0)
	c.SetGraphSize(12, 15)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.backendRequests.WithLabelValues("/api/stops", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.backendRequests.WithLabelValues("/api/routes/shortest", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.staleResponses.WithLabelValues("graph")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.highlighted.WithLabelValues("node", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.highlighted.WithLabelValues("node", "skipped")))
	assert.Equal(t, 12.0, testutil.ToFloat64(c.graphNodes))
}

func TestHandlerExposesRegistry(t *testing.T) {
	c := NewCollector()
	c.ObserveStale("stats")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `tramnet_stale_responses_total{slice="stats"} 1`))
}
