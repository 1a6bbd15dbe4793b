// Package metrics provides Prometheus metrics for the Fern service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VersionsCreatedTotal tracks committed config versions
	VersionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "config",
			Name:      "versions_created_total",
			Help:      "Total number of config versions created by operation",
		},
		[]string{"operation"},
	)

	// VersionConflictsTotal tracks version allocation races by outcome
	VersionConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "config",
			Name:      "version_conflicts_total",
			Help:      "Total number of version conflicts by outcome (retried, exhausted)",
		},
		[]string{"outcome"},
	)

	// FieldEditsTotal tracks field edits by kind of edit and result
	FieldEditsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "config",
			Name:      "field_edits_total",
			Help:      "Total number of field edits by operation and status",
		},
		[]string{"operation", "status"},
	)

	// ActiveCacheTotal tracks active version cache lookups
	ActiveCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "cache",
			Name:      "active_lookups_total",
			Help:      "Total number of active version cache lookups by result",
		},
		[]string{"result"},
	)

	// StoreOperationDuration tracks config store latency
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of config store operations in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	// EventsPublishedTotal tracks config events sent to Kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of config events published by type and status",
		},
		[]string{"type", "status"},
	)
)

// Status labels
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
