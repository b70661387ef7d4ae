package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications persisted",
		},
		[]string{"type"},
	)

	HookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_hook_failures_total",
			Help: "Per-recipient notification creations that failed inside an event hook",
		},
		[]string{"rule"},
	)

	NotificationsCleaned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_cleaned_total",
			Help: "Notifications removed by cleanup runs",
		},
		[]string{"reason"},
	)

	StreamSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_stream_subscribers",
			Help: "Number of open notification stream connections",
		},
	)

	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_insight_requests_total",
			Help: "AI insight generation requests by outcome",
		},
		[]string{"page_type", "outcome"},
	)

	InsightLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ai_insight_generation_seconds",
			Help:    "Latency of the upstream text generation call",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
)
