package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SaleRecorded("cash", 680)
	m.SaleRecorded("cash", 320)
	m.RefundRecorded(100)
	m.PresenceRecorded("login", false)
	m.ObserveRequest("GET", "/api/v1/sales", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sales.WithLabelValues("cash")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.salesAmount.WithLabelValues("cash")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refunds))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.presence.WithLabelValues("login", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/sales", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SaleRecorded("card", 1)
		m.RefundRecorded(1)
		m.PresenceRecorded("logout", true)
		m.MenuImported("ok")
		m.ObserveRequest("GET", "/", 200, time.Second)
	})
}
