// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "brewpos"

// Metrics groups the API's collectors. A nil *Metrics is a no-op.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	sales        *prometheus.CounterVec
	salesAmount  *prometheus.CounterVec
	refunds      prometheus.Counter
	refundAmount prometheus.Counter
	presence     *prometheus.CounterVec
	menuImports  *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns collectors registered on the default registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// New creates and registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Completed sales by payment method.",
		}, []string{"payment_method"}),
		salesAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_amount_cents_total",
			Help:      "Charged amount of completed sales in cents.",
		}, []string{"payment_method"}),
		refunds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refunds_total",
			Help:      "Refunds applied to sales.",
		}),
		refundAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refunds_amount_cents_total",
			Help:      "Refunded amount in cents.",
		}),
		presence: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_actions_total",
			Help:      "Recorded presence actions by action and outcome.",
		}, []string{"action", "outcome"}),
		menuImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_imports_total",
			Help:      "Menu table imports by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.sales, m.salesAmount,
		m.refunds, m.refundAmount,
		m.presence, m.menuImports,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) SaleRecorded(paymentMethod string, totalCents int64) {
	if m == nil {
		return
	}
	m.sales.WithLabelValues(paymentMethod).Inc()
	m.salesAmount.WithLabelValues(paymentMethod).Add(float64(totalCents))
}

func (m *Metrics) RefundRecorded(amountCents int64) {
	if m == nil {
		return
	}
	m.refunds.Inc()
	m.refundAmount.Add(float64(amountCents))
}

func (m *Metrics) PresenceRecorded(action string, accepted bool) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !accepted {
		outcome = "rejected"
	}
	m.presence.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) MenuImported(outcome string) {
	if m == nil {
		return
	}
	m.menuImports.WithLabelValues(outcome).Inc()
}
