package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependentPerInstance(t *testing.T) {
	a, b := New(), New()
	a.Requests.WithLabelValues("seller", "ok").Inc()
	a.FitRetries.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Requests.WithLabelValues("seller", "ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Requests.WithLabelValues("seller", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.FitRetries))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ColdStarts.WithLabelValues("no_history").Inc()
	m.FitDuration.WithLabelValues("retailer").Observe(0.02)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `demand_forecast_cold_starts_total{reason="no_history"} 1`))
	assert.Contains(t, text, "demand_forecast_fit_duration_seconds_bucket")
}
