package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for outbox dispatching.
type Metrics struct {
	Delivered           prometheus.Counter
	DeliveryFailures    prometheus.Counter
	BatchSize           prometheus.Histogram
	CircuitBreakerState prometheus.Gauge
}

// NewMetrics registers dispatcher metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Delivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_outbox_delivered_total",
			Help: "Total number of outbox messages delivered downstream",
		}),
		DeliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "veriflow_outbox_delivery_failures_total",
			Help: "Total number of failed outbox delivery attempts",
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veriflow_outbox_batch_size",
			Help:    "Number of messages fetched per dispatch cycle",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "veriflow_outbox_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) addDelivered(n int) {
	if m != nil {
		m.Delivered.Add(float64(n))
	}
}

func (m *Metrics) incFailures() {
	if m != nil {
		m.DeliveryFailures.Inc()
	}
}

func (m *Metrics) observeBatch(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
