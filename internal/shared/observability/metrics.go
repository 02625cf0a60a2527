package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "apidrift_extraction_seconds",
		Help:    "Time spent extracting the public signature set of a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	DiffDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apidrift_diff_seconds",
		Help:    "Time spent diffing the old and new signature sets of a file.",
		Buckets: prometheus.DefBuckets,
	})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apidrift_findings_total",
		Help: "Total number of breaking-change findings emitted, by change kind.",
	}, []string{"kind"})

	FilesComparedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidrift_files_compared_total",
		Help: "Total number of file pairs run through the comparison pipeline.",
	})

	FilesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apidrift_files_skipped_total",
		Help: "Total number of file pairs skipped, by reason.",
	}, []string{"reason"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apidrift_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apidrift_run_seconds",
		Help:    "End-to-end duration of a comparison run.",
		Buckets: prometheus.DefBuckets,
	})
)
