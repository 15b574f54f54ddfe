// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsShown = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookdesk",
		Subsystem: "notifications",
		Name:      "shown_total",
		Help:      "Notifications added to the active list.",
	}, []string{"kind"})

	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookdesk",
		Subsystem: "notifications",
		Name:      "suppressed_total",
		Help:      "Notifications dropped because an identical one is active or cooling down.",
	}, []string{"kind"})

	ConfirmOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookdesk",
		Subsystem: "confirm",
		Name:      "outcomes_total",
		Help:      "Confirmation dialog resolutions.",
	}, []string{"outcome"})

	BackendRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookdesk",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Latency of calls to the booking REST backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})

	CartEnrichFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookdesk",
		Subsystem: "cart",
		Name:      "enrich_failures_total",
		Help:      "Detail fetch fan-outs that failed and left the cart items untouched.",
	})
)
