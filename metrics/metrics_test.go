package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.OrderPlaced()
	m.OrderPlaced()
	m.OrderTransitioned("delivered")
	m.RatingApplied("restaurant")
	m.RatingApplied("menu_item")
	m.RatingApplied("menu_item")

	require.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	require.Equal(t, 1.0, testutil.ToFloat64(m.orderTransitions.WithLabelValues("delivered")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.ratingsApplied.WithLabelValues("menu_item")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.OrderPlaced()
		m.OrderTransitioned("cancelled")
		m.RatingApplied("restaurant")
		m.CartAddThrottled()
		m.ObserveRequest("/health", http.MethodGet, http.StatusOK, time.Millisecond)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.OrderPlaced()
	m.ObserveRequest("/api/v1/home", http.MethodGet, http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "justeat_orders_placed_total 1")
	require.Contains(t, rec.Body.String(), `justeat_http_request_duration_seconds_count{method="GET",route="/api/v1/home",status="200"} 1`)
}
