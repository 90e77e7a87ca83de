package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domainbill_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_wallet_transactions_total",
			Help: "Total number of wallet ledger transactions",
		},
		[]string{"type", "service"},
	)

	WalletTransactionCents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_wallet_transaction_cents_total",
			Help: "Total transacted amount in cents",
		},
		[]string{"type"},
	)

	AutoRechargesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_auto_recharges_total",
			Help: "Total number of auto-recharge attempts",
		},
		[]string{"result"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"plan"},
	)

	RevenueRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "domainbill_revenue_records_total",
			Help: "Total number of revenue records written",
		},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domainbill_notifications_queued_total",
			Help: "Total number of notifications queued",
		},
		[]string{"event"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "domainbill_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWalletTransaction(txType, serviceType string, amountCents int64) {
	WalletTransactionsTotal.WithLabelValues(txType, serviceType).Inc()
	WalletTransactionCents.WithLabelValues(txType).Add(float64(amountCents))
}

func RecordAutoRecharge(result string) {
	AutoRechargesTotal.WithLabelValues(result).Inc()
}

func RecordSubscription(plan string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan).Inc()
}

func RecordRevenue() {
	RevenueRecordedTotal.Inc()
}

func RecordNotification(event string) {
	NotificationsQueuedTotal.WithLabelValues(event).Inc()
}
