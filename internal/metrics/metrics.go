package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for certificate issuance.
type Metrics struct {
	// Workflow outcomes by status (success, already_sent, failed) and error kind
	IssuanceOutcome *prometheus.CounterVec

	// End-to-end workflow latency by status
	IssuanceLatency *prometheus.HistogramVec

	// Individual mail transport attempts by result (sent, failed)
	DeliveryAttempts *prometheus.CounterVec

	// Webhook requests rejected by the rate limiter
	RateLimited prometheus.Counter
}

// New creates a Metrics instance registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IssuanceOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certbot_issuance_outcomes_total",
			Help: "Total certificate issuance outcomes by status and error kind",
		}, []string{"status", "kind"}),

		IssuanceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certbot_issuance_duration_seconds",
			Help:    "Duration of a submission from receipt to completion",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"status"}),

		DeliveryAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certbot_delivery_attempts_total",
			Help: "Mail transport attempts by result",
		}, []string{"result"}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "certbot_webhook_rate_limited_total",
			Help: "Webhook requests rejected by the rate limiter",
		}),
	}
}

// ObserveIssuance records a finished workflow run. kind is empty on success.
func (m *Metrics) ObserveIssuance(status, kind string, d time.Duration) {
	if m != nil {
		m.IssuanceOutcome.WithLabelValues(status, kind).Inc()
		m.IssuanceLatency.WithLabelValues(status).Observe(d.Seconds())
	}
}

// IncrementDeliveryAttempt records one mail transport attempt.
func (m *Metrics) IncrementDeliveryAttempt(result string) {
	if m != nil {
		m.DeliveryAttempts.WithLabelValues(result).Inc()
	}
}

// IncrementRateLimited records a rejected webhook request.
func (m *Metrics) IncrementRateLimited() {
	if m != nil {
		m.RateLimited.Inc()
	}
}
