package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBooking(t *testing.T) {
	c := NewCollector("medsched")

	c.RecordBooking("reserve", OutcomeBooked)
	c.RecordBooking("reserve", OutcomeConflict)
	c.RecordBooking("reserve", OutcomeConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.bookingsTotal.WithLabelValues("reserve", OutcomeBooked)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.bookingsTotal.WithLabelValues("reserve", OutcomeConflict)))
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("b")

	a.RecordHTTPRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.httpRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.httpRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("medsched")
	c.ObserveAvailability("get_availability", 20*time.Millisecond)
	c.ObserveAlternatives(4)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "availability_computation_duration_seconds")
	assert.Contains(t, rec.Body.String(), "alternative_options_found")
}
