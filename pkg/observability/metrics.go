package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Checkout metrics
	checkoutPaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brdge_checkout_payments_total",
		Help: "Total number of checkout payment attempts",
	}, []string{
		"status",   // completed, pending, requires_action, declined, error
		"currency", // ISO 4217 currency code
	})

	checkoutAmountMinorUnits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brdge_checkout_amount_minor_units_total",
		Help: "Total checkout amount in minor units (for revenue tracking)",
	}, []string{
		"status",
		"currency",
	})

	// Gateway call latency (end-to-end, including network)
	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "brdge_gateway_request_duration_seconds",
		Help: "Duration of BR-DGE gateway API calls",
		// Buckets: 100ms to 30s (gateway calls time out at 60s)
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{
		"operation", // payment, refund
		"status",    // success, declined, error, timeout
	})

	// Refund metrics
	refundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brdge_refunds_total",
		Help: "Total number of refund attempts",
	}, []string{
		"result", // success, failed, missing_payment
	})

	// Webhook metrics
	webhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brdge_webhook_events_total",
		Help: "Total number of webhook events received",
	}, []string{
		"event_type", // payment.completed, payment.failed, ...
		"result",     // applied, suppressed, dropped, rejected, error
	})
)

// RecordCheckoutPayment records a checkout attempt and its amount.
func RecordCheckoutPayment(status, currency string, amountMinorUnits int64) {
	checkoutPaymentsTotal.WithLabelValues(status, currency).Inc()
	checkoutAmountMinorUnits.WithLabelValues(status, currency).Add(float64(amountMinorUnits))
}

// RecordGatewayRequest records the latency of a gateway API call.
func RecordGatewayRequest(operation, status string, durationSeconds float64) {
	gatewayRequestDuration.WithLabelValues(operation, status).Observe(durationSeconds)
}

// RecordRefund records a refund attempt.
func RecordRefund(result string) {
	refundsTotal.WithLabelValues(result).Inc()
}

// RecordWebhookEvent records a received webhook event and how it was
// handled.
func RecordWebhookEvent(eventType, result string) {
	webhookEventsTotal.WithLabelValues(eventType, result).Inc()
}
