package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes recorded by RecordBooking.
const (
	OutcomeBooked   = "booked"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Collector owns a private registry so that several instances can live in one process (tests).
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	bookingsTotal        *prometheus.CounterVec
	availabilityDuration *prometheus.HistogramVec
	alternativesFound    prometheus.Histogram
}

func NewCollector(serviceName string) *Collector {
	labels := prometheus.Labels{"service": serviceName}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "endpoint", "status_code"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "endpoint"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_bookings_total",
			Help:        "Reservation and reschedule attempts by outcome",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		availabilityDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_computation_duration_seconds",
			Help:        "Time spent computing availability",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			ConstLabels: labels,
		}, []string{"operation"}),
		alternativesFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "alternative_options_found",
			Help:        "Number of alternative options returned per search",
			Buckets:     []float64{0, 1, 2, 3, 5, 8, 10},
			ConstLabels: labels,
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.bookingsTotal,
		c.availabilityDuration,
		c.alternativesFound,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordBooking(operation, outcome string) {
	c.bookingsTotal.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) ObserveAvailability(operation string, duration time.Duration) {
	c.availabilityDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) ObserveAlternatives(found int) {
	c.alternativesFound.Observe(float64(found))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
