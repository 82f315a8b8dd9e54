package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSubmit("redirected")
	m.ObserveSubmit("redirected")
	m.ObserveSubmit("invalid_email")
	m.ObservePaymentStatus("success")
	m.ObservePaymentStatus("")

	assert.InDelta(t, 2, testutil.ToFloat64(m.submits.WithLabelValues("redirected")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.submits.WithLabelValues("invalid_email")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.paymentStatus))
}

func TestNew_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
