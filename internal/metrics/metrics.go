// Package metrics счётчики Prometheus для формы подписки.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	submits       *prometheus.CounterVec
	paymentStatus *prometheus.CounterVec
}

// New регистрирует счётчики в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscription_form",
			Name:      "submits_total",
			Help:      "Form submissions by outcome.",
		}, []string{"outcome"}),
		paymentStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subscription_form",
			Name:      "payment_status_total",
			Help:      "Page loads carrying a recognised payment_status.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.submits, m.paymentStatus)
	return m
}

func (m *Metrics) ObserveSubmit(outcome string) {
	m.submits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObservePaymentStatus(status string) {
	if status == "" {
		return
	}
	m.paymentStatus.WithLabelValues(status).Inc()
}
