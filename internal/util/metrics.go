package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected or failed checkouts",
	}, []string{"reason"})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value",
		Help:    "Order totals at checkout",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	OrderUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_updates_total",
		Help: "Admin order updates by resulting status",
	}, []string{"status"})

	ReceiptsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipts_uploaded_total",
		Help: "Total number of payment receipts uploaded",
	})

	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages by sender",
	}, []string{"sender"})

	FavoritesToggledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favorites_toggled_total",
		Help: "Favorite toggles by outcome",
	}, []string{"status"})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Authentication attempts by principal kind and result",
	}, []string{"kind", "result"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_notifications_total",
		Help: "Admin notifications recorded by kind",
	}, []string{"kind"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
