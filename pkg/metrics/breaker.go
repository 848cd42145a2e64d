package metrics

import "github.com/prometheus/client_golang/prometheus"

// Breaker state values exported by BreakerMetrics.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// BreakerMetrics exports circuit breaker state per breaker name.
type BreakerMetrics struct {
	state *prometheus.GaugeVec
}

func NewBreakerMetrics(reg prometheus.Registerer) *BreakerMetrics {
	if reg == nil {
		return &BreakerMetrics{}
	}
	state := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open).",
	}, []string{"name"})
	reg.MustRegister(state)
	return &BreakerMetrics{state: state}
}

func (m *BreakerMetrics) SetState(name string, value float64) {
	if m == nil || m.state == nil {
		return
	}
	m.state.WithLabelValues(normalizeLabel(name)).Set(value)
}
