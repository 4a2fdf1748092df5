// Package metrics defines Prometheus metrics for resell-valuator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rv"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	}, []string{"path"})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last liveness check succeeded (1) or failed (0).",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "Whether the last readiness check succeeded (1) or failed (0).",
	})
)

// Valuation metrics.
var (
	ValuationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuations_total",
		Help:      "Total number of device valuations by outcome.",
	}, []string{"outcome"})

	ValuationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "valuation_errors_total",
		Help:      "Total number of failed valuations by error kind.",
	}, []string{"kind"})

	ValuationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "valuation_duration_seconds",
		Help:      "Duration of single device valuations in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8), // 50µs .. ~0.8s
	})

	PredictedPrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "predicted_price",
		Help:      "Distribution of predicted used prices.",
		Buckets:   prometheus.LinearBuckets(0, 10000, 16), // 0 .. 150000
	})
)

// Batch metrics.
var (
	BatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch valuations in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_size",
		Help:      "Number of records per batch valuation.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
	})

	BatchRowsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_rows_failed_total",
		Help:      "Total number of batch rows that could not be valued.",
	})
)

// Reference price metrics.
var (
	ReferenceEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reference_entries",
		Help:      "Number of brands with a known reference price.",
	})

	ReferenceUpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reference_upserts_total",
		Help:      "Total number of reference price upserts by source.",
	}, []string{"source"})

	ReferenceRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reference_refresh_duration_seconds",
		Help:      "Duration of scheduled reference price refreshes in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ReferenceRefreshErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reference_refresh_errors_total",
		Help:      "Total number of failed reference price refreshes.",
	})
)

// Price watch metrics.
var (
	WatchChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "watch_checks_total",
		Help:      "Total number of price watch checks by outcome.",
	}, []string{"outcome"})

	AlertsFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_fired_total",
		Help:      "Total number of watch alerts delivered.",
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of failed alert notifications.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Scheduler metrics.
var (
	SchedulerNextRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_reference_refresh_timestamp",
		Help:      "Unix timestamp of the next scheduled reference refresh.",
	})

	SchedulerNextWatchCheckTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_watch_check_timestamp",
		Help:      "Unix timestamp of the next scheduled price watch check.",
	})
)
