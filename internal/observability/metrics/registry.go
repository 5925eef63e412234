// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider metrics track upstream reservation-service traffic
var (
	// ProviderRequestsTotal counts requests to reservation providers by outcome
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of requests issued to reservation providers",
		},
		[]string{"provider", "operation", "result"}, // result: success, failure
	)

	// ProviderRequestDuration measures provider request duration in seconds
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Reservation provider request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"provider", "operation"},
	)

	// ProviderRetriesTotal counts retried provider requests
	ProviderRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Total number of retried provider requests",
		},
		[]string{"provider", "operation"},
	)
)

// Search metrics track availability search behavior
var (
	// SearchIterationsTotal counts completed search iterations by outcome
	SearchIterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_iterations_total",
			Help: "Total number of completed availability search iterations",
		},
		[]string{"result"}, // result: matches, empty, error
	)

	// SearchDuration measures the duration of a full search iteration
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_duration_seconds",
			Help:    "Time taken to complete one availability search iteration",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	// CampsitesFoundTotal counts matching campsites returned by searches
	CampsitesFoundTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campsites_found_total",
			Help: "Total number of matching campsites returned by searches",
		},
	)

	// FacilitiesSearched tracks the number of campgrounds covered by the
	// most recent search iteration
	FacilitiesSearched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facilities_searched",
			Help: "Number of campgrounds covered by the latest search iteration",
		},
	)

	// LedgerSize tracks the number of campsites the continuous engine has
	// already notified about
	LedgerSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledger_size",
			Help: "Number of campsites recorded in the notification ledger",
		},
	)
)

// Notification metrics track outbound channel delivery
var (
	// NotificationsSentTotal counts notification deliveries by channel and status
	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notification deliveries",
		},
		[]string{"channel", "status"}, // status: success, failure
	)

	// NotificationBatchSize measures the number of campsites per dispatch
	NotificationBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_batch_size",
			Help:    "Number of campsites included in each notification dispatch",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		},
	)
)

// Database metrics track metadata index performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
