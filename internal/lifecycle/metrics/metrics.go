package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the lifecycle's Prometheus collectors. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	RequestsCreated    prometheus.Counter
	Transitions        *prometheus.CounterVec
	Assignments        *prometheus.CounterVec
	AssignmentDuration prometheus.Histogram
	EmitFailures       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_verification_requests_created_total",
			Help: "Verification requests created",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_status_transitions_total",
			Help: "Status transitions applied, by target status",
		}, []string{"to_status"}),
		Assignments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_officer_assignments_total",
			Help: "Officer assignments, by mode (automatic or manual)",
		}, []string{"mode"}),
		AssignmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veriflow_officer_assignment_duration_seconds",
			Help:    "Time spent scoring officers and assigning a request",
			Buckets: prometheus.DefBuckets,
		}),
		EmitFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_event_emit_failures_total",
			Help: "Audit or notification emissions that failed, by sink",
		}, []string{"sink"}),
	}
}

func (m *Metrics) IncrementRequestsCreated() {
	if m == nil {
		return
	}
	m.RequestsCreated.Inc()
}

func (m *Metrics) IncrementTransition(toStatus string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(toStatus).Inc()
}

func (m *Metrics) IncrementAssignment(mode string) {
	if m == nil {
		return
	}
	m.Assignments.WithLabelValues(mode).Inc()
}

func (m *Metrics) ObserveAssignmentDuration(start time.Time) {
	if m == nil {
		return
	}
	m.AssignmentDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementEmitFailure(sink string) {
	if m == nil {
		return
	}
	m.EmitFailures.WithLabelValues(sink).Inc()
}
