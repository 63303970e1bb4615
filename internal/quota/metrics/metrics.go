package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IncrementsTotal    prometheus.Counter
	LimitExceededTotal prometheus.Counter
	RollingResetsTotal prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IncrementsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_quota_increments_total",
			Help: "Total number of quota counter increments",
		}),
		LimitExceededTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_quota_limit_exceeded_total",
			Help: "Total number of create checks rejected by the yearly quota",
		}),
		RollingResetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_quota_rolling_resets_total",
			Help: "Total number of rolling counter resets",
		}),
	}
}

func (m *Metrics) IncrementIncrements() {
	if m != nil {
		m.IncrementsTotal.Inc()
	}
}

func (m *Metrics) IncrementLimitExceeded() {
	if m != nil {
		m.LimitExceededTotal.Inc()
	}
}

func (m *Metrics) IncrementRollingResets() {
	if m != nil {
		m.RollingResetsTotal.Inc()
	}
}
