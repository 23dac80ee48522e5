package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared across handlers.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	TourJoins      prometheus.Counter
}

// New creates and registers all shared Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vatour_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		TourJoins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vatour_tour_joins_total",
			Help: "Total number of tour enrollments created.",
		}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
}

// IncrementTourJoins increments the enrollment counter by 1.
func (m *Metrics) IncrementTourJoins() {
	if m == nil {
		return
	}
	m.TourJoins.Inc()
}
