// Package metrics defines the Prometheus collectors exported on the
// metrics endpoint. All collectors are registered on the default
// registry at init time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route pattern and
	// status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voltguard",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "endpoint", "status"})

	// RequestDuration observes request latency by route pattern.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voltguard",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	// ReadingsIngested counts persisted telemetry rows.
	ReadingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "voltguard",
		Name:      "readings_ingested_total",
		Help:      "Total telemetry readings persisted.",
	})

	// AnomaliesDetected counts persisted anomalies by engine.
	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voltguard",
		Name:      "anomalies_detected_total",
		Help:      "Total anomalies persisted, labeled by detection engine.",
	}, []string{"engine"})

	// ModelRetrains counts successful baseline refits.
	ModelRetrains = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "voltguard",
		Name:      "model_retrains_total",
		Help:      "Total successful baseline model retrains.",
	})
)

// Engine label values for AnomaliesDetected.
const (
	EngineBaseline = "baseline"
	EngineRules    = "rules"
)
