package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Fallback("products", "unavailable")
	m.Fallback("products", "unavailable")
	m.DroppedProduct("snapshot")
	m.Order("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("products", "unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.droppedProducts.WithLabelValues("snapshot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("success")))

	_, err = New(reg)
	assert.Error(t, err, "registering twice should fail")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Fallback("product", "query_error")
		m.DroppedProduct("live")
		m.Order("rejected")
	})
}
