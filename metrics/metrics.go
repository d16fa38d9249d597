package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	fallbacks       *prometheus.CounterVec
	droppedProducts *prometheus.CounterVec
	orders          *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_fallbacks_total",
			Help:      "Reads served from the snapshot because the live store failed.",
		}, []string{"operation", "reason"}),
		droppedProducts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_dropped_products_total",
			Help:      "Product rows skipped because they carry no id.",
		}, []string{"source"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_total",
			Help:      "Order placements by outcome.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.fallbacks, m.droppedProducts, m.orders} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Fallback(operation, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) DroppedProduct(source string) {
	if m == nil {
		return
	}
	m.droppedProducts.WithLabelValues(source).Inc()
}

func (m *Metrics) Order(result string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(result).Inc()
}
