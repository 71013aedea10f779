package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	OpSearch = "search"
	OpRecent = "recent"
)

var (
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_remote_requests_total",
			Help: "The total number of calls made to the photo service",
		},
		[]string{"operation", "status"},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_remote_request_duration_seconds",
			Help:    "Duration of calls to the photo service, including normalization",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ItemsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_items_merged_total",
			Help: "The total number of items appended to the screen state",
		},
	)

	DuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_items_duplicates_skipped_total",
			Help: "The total number of items dropped because their id was already shown",
		},
	)

	StaleResponsesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_stale_responses_discarded_total",
			Help: "Responses dropped because a refresh started a new session while they were in flight",
		},
	)

	FetchesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_fetches_in_flight",
			Help: "Number of page fetches currently running",
		},
	)

	ArchiveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_archive_errors_total",
			Help: "Total number of pages that could not be archived",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_state_events_published_total",
			Help: "Total number of screen state events published",
		},
		[]string{"status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photo_circuit_breaker_state",
			Help: "State of the photo service circuit breaker (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

var (
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_state_events_consumed_total",
			Help: "Total number of screen state events read by the tail consumer",
		},
		[]string{"status"},
	)

	DLQMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_state_events_dlq_total",
			Help: "Total number of state events sent to the dead letter topic",
		},
	)
)
