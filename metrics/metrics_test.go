package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCounters(t *testing.T) {
	m := New()

	m.ObserveUpsert("location", "created")
	m.ObserveUpsert("location", "created")
	m.ObserveAssignment("person", "removed")
	m.ObserveDelete(nil)
	m.ObserveDelete(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SatelliteUpserts.WithLabelValues("location", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoleAssignments.WithLabelValues("person", "removed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FarmDeletes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FarmDeletes.WithLabelValues("error")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpsert("location", "updated")
		m.ObserveAssignment("company", "noop")
		m.ObserveDelete(nil)
		m.ObserveRequest("GET", "/api/farms", "200", 0.01)
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/farms", "200", 0.02)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `windmanager_http_requests_total{method="GET",route="/api/farms",status="200"} 1`)
}
