package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Skotchmaster/storefront/pkg/apperrors"
)

type CartMetrics struct {
	Mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart counters on reg.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	m := &CartMetrics{
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "mutations_total",
			Help:      "Cart mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.Mutations)
	return m
}

// Observe counts one mutation; outcome is "ok" or the error code. A nil
// receiver is a no-op.
func (m *CartMetrics) Observe(op string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, apperrors.Code(err)).Inc()
}
