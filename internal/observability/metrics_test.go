package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordSeed(t *testing.T) {
	m := NewMetrics()

	m.RecordSeed("skipped")
	m.RecordSeed("skipped")
	m.RecordSeed("account_created")
	m.RecordMigrationFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.seedRuns.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.seedRuns.WithLabelValues("account_created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.migrationFailures))
}

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/admin/products", "GET", 200, 15*time.Millisecond)
	m.RecordError("/admin/products", "GET", "NOT_FOUND")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/admin/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpErrors.WithLabelValues("GET", "/admin/products", "NOT_FOUND")))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "INTERNAL")
		m.RecordSeed("skipped")
		m.RecordMigrationFailure()
	})
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetrics()
	m.RecordSeed("skipped")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `storefront_seed_runs_total{outcome="skipped"} 1`)
}
