package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the compliance module.
type Metrics struct {
	ReportsSubmitted   *prometheus.CounterVec
	ReportsValidated   *prometheus.CounterVec
	AuditsRecorded     prometheus.Counter
	EscalationsCreated prometheus.Counter
	IntelReports       prometheus.Counter
	IntelDuration      prometheus.Histogram
}

// New creates and registers all compliance metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ReportsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_reports_submitted_total",
			Help: "Attestations accepted, labeled by derived compliance status",
		}, []string{"status"}),
		ReportsValidated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_reports_validated_total",
			Help: "Report validation outcomes",
		}, []string{"valid"}),
		AuditsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_audits_recorded_total",
			Help: "Independent audit rows recorded",
		}),
		EscalationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_escalations_created_total",
			Help: "Escalations opened by CRITICAL submissions",
		}),
		IntelReports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_intel_reports_total",
			Help: "Intelligence reports compiled",
		}),
		IntelDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vigil_intel_report_duration_seconds",
			Help:    "Latency of intelligence report compilation",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncReportsSubmitted(status string) {
	m.ReportsSubmitted.WithLabelValues(status).Inc()
}

func (m *Metrics) IncReportsValidated(valid bool) {
	m.ReportsValidated.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) IncAuditsRecorded() {
	m.AuditsRecorded.Inc()
}

func (m *Metrics) IncEscalationsCreated() {
	m.EscalationsCreated.Inc()
}

func (m *Metrics) IncIntelReports() {
	m.IntelReports.Inc()
}

func (m *Metrics) ObserveIntelDuration(seconds float64) {
	m.IntelDuration.Observe(seconds)
}
