package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
)

type Metrics struct {
	Checks         *prometheus.CounterVec
	FallbackChecks prometheus.Counter
	StoreErrors    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veriflow_ratelimit_checks_total",
			Help: "Total number of actor rate limit checks by endpoint class and outcome",
		}, []string{"class", "outcome"}),
		FallbackChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_ratelimit_fallback_checks_total",
			Help: "Total number of rate limit checks served by the in-memory fallback",
		}),
		StoreErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_ratelimit_store_errors_total",
			Help: "Total number of failed rate limit store lookups",
		}),
	}
}

func (m *Metrics) RecordCheck(class string, allowed bool) {
	if m == nil {
		return
	}
	outcome := OutcomeAllowed
	if !allowed {
		outcome = OutcomeDenied
	}
	m.Checks.WithLabelValues(class, outcome).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}

func (m *Metrics) IncrementStoreError() {
	if m == nil {
		return
	}
	m.StoreErrors.Inc()
}
