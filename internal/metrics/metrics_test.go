package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveIssuance("success", "", time.Second)
		m.IncrementDeliveryAttempt("sent")
		m.IncrementRateLimited()
	})
}

func TestMetrics_ObserveIssuance(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveIssuance("success", "", 120*time.Millisecond)
	m.ObserveIssuance("failed", "delivery_failure", 2*time.Second)
	m.ObserveIssuance("failed", "delivery_failure", 3*time.Second)

	require.Equal(t, float64(1), testutil.ToFloat64(m.IssuanceOutcome.WithLabelValues("success", "")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.IssuanceOutcome.WithLabelValues("failed", "delivery_failure")))
	require.Equal(t, 2, testutil.CollectAndCount(m.IssuanceLatency))
}
