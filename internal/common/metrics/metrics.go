// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of outbound notifications dispatched",
		},
		[]string{"channel"},
	)

	NotificationsDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_denied_total",
			Help: "Total number of events denied by the dispatch cache",
		},
		[]string{"reason"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of outbound dispatches dropped after failure",
		},
		[]string{"channel", "reason"},
	)

	RecipientsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_recipients_dropped_total",
			Help: "Recipients dropped because no address could be resolved",
		},
		[]string{"role"},
	)

	UnresolvedPlaceholders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "template_unresolved_placeholders_total",
			Help: "Placeholder tokens rendered without a context value",
		},
	)

	CatalogLookupMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_lookup_misses_total",
			Help: "Status code lookups that found no catalog entry",
		},
	)

	EventDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "status_event_duration_seconds",
			Help: "Duration of status event handling in seconds",
		},
	)
)
