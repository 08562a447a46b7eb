// Package metrics defines the Prometheus collectors shared by the API server
// and the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration records handler latency by method, route template and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// IngestRecords counts import records by outcome: inserted, skipped, invalid or dead_lettered.
	IngestRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_ingest_records_total",
		Help: "Total number of import records by outcome",
	}, []string{"outcome"})

	// IngestBatchAttempts counts insert attempts, labelled by whether they succeeded.
	IngestBatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_ingest_batch_attempts_total",
		Help: "Total number of batch insert attempts",
	}, []string{"result"})

	// FeedPagesServed counts feed pages by kind: first or next.
	FeedPagesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_feed_pages_total",
		Help: "Total number of feed pages served",
	}, []string{"kind"})
)
