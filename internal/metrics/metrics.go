package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordbot_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keywordbot_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Webhook metrics
	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordbot_webhook_events_total",
			Help: "Total webhook events received",
		},
		[]string{"type"}, // "text", "postback", "ignored"
	)

	InvalidSignatures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keywordbot_invalid_signatures_total",
			Help: "Total callbacks rejected for a bad signature",
		},
	)

	DuplicateDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keywordbot_duplicate_deliveries_total",
			Help: "Total redelivered events skipped",
		},
	)

	RepliesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordbot_replies_total",
			Help: "Total replies sent to the messaging API",
		},
		[]string{"kind", "result"}, // kind "text"/"menu", result "ok"/"error"
	)

	// Business metrics
	ResolverOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordbot_resolver_outcomes_total",
			Help: "Total resolved messages by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordbot_cache_lookups_total",
			Help: "Keyword cache lookups",
		},
		[]string{"result"}, // "hit" or "miss"
	)

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keywordbot_store_latency_seconds",
			Help:    "Keyword store operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
		[]string{"backend", "op"},
	)
)
