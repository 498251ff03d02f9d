package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus mirrors of the stats registry, labeled by event name.
// The /metrics endpoint exposes these for scraping while get_metrics
// serves the JSON percentile snapshot.
var (
	// EventsTotal counts every counter increment by event name.
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsnexus",
			Name:      "events_total",
			Help:      "Total count of application events by name",
		},
		[]string{"event"},
	)

	// OperationDuration measures recorded durations in seconds.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsnexus",
			Name:      "operation_duration_seconds",
			Help:      "Duration of fetches and requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheSize tracks the current number of cached responses.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "newsnexus",
			Name:      "cache_entries",
			Help:      "Number of entries in the response cache",
		},
	)
)

func mirrorCounter(name string, value float64) {
	EventsTotal.WithLabelValues(name).Add(value)
}

func mirrorDuration(name string, d time.Duration) {
	OperationDuration.WithLabelValues(name).Observe(d.Seconds())
}
