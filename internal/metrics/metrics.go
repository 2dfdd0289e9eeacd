// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crm_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	InvoicesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_invoices_created_total",
		Help: "Invoices created, from bookings or from scratch",
	})

	PaymentsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_payments_recorded_total",
		Help: "Payments applied to invoices",
	})

	ActivitiesRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_activities_recorded_total",
		Help: "Activity records appended, by entity kind and type",
	}, []string{"entity_kind", "type"})

	FeedRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_activity_feed_requests_total",
		Help: "Activity feed page requests served",
	})
)
