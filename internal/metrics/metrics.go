// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	NotificationsDerived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_notifications_derived_total",
		Help: "Notification events derived for viewers, by type.",
	}, []string{"type"})

	MessagesMarkedRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_messages_marked_read_total",
		Help: "Messages flipped from unread to read.",
	})

	StoriesPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "social_stories_purged_total",
		Help: "Expired stories removed by the sweeper.",
	})
)
