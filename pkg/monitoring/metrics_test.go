package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector_Middleware(t *testing.T) {
	mc := NewMetricsCollector("clinic-test")

	handler := mc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/doctors", nil))

	t.Run("counts the request with its status code", func(t *testing.T) {
		counter, err := mc.requestsTotal.GetMetricWithLabelValues("GET", "/api/v1/doctors", "418")
		require.NoError(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(counter))
	})

	t.Run("every sample carries the service label", func(t *testing.T) {
		expected := `
			# HELP http_requests_total Total number of HTTP requests
			# TYPE http_requests_total counter
			http_requests_total{method="GET",path="/api/v1/doctors",service="clinic-test",status_code="418"} 1
		`
		assert.NoError(t, testutil.CollectAndCompare(mc.requestsTotal, strings.NewReader(expected)))
	})

	t.Run("no request is left in flight", func(t *testing.T) {
		assert.Equal(t, float64(0), testutil.ToFloat64(mc.requestsInFlight))
	})
}
