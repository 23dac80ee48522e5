package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the report pipeline.
type Metrics struct {
	Submissions *prometheus.CounterVec
	Matches     *prometheus.CounterVec
}

// New creates and registers the report pipeline metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vatour_report_submissions_total",
			Help: "Leg report submissions by derived status.",
		}, []string{"status"}),
		Matches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vatour_report_matches_total",
			Help: "Matcher outcomes by source strategy.",
		}, []string{"source"}),
	}
}

// IncrementSubmissions records one processed submission.
func (m *Metrics) IncrementSubmissions(status string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(status).Inc()
}

// IncrementMatches records one matcher outcome.
func (m *Metrics) IncrementMatches(source string) {
	if m == nil {
		return
	}
	m.Matches.WithLabelValues(source).Inc()
}
