// Package metrics provides Prometheus metrics collection for the wine
// quality dashboard. It defines the prediction, validation, and dashboard
// metrics exposed on the metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the dashboard process.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   prometheus.Counter   // Total number of prediction requests issued
	PredictionFailures prometheus.Counter   // Application-level prediction rejections
	TransportErrors    prometheus.Counter   // Requests that never completed
	DuplicateRequests  prometheus.Counter   // Predict calls ignored by the in-flight guard
	PredictionLatency  prometheus.Histogram // End-to-end prediction latency in seconds
	PredictedQuality   prometheus.Histogram // Distribution of returned quality scores

	// Input metrics
	FeatureRejections prometheus.Counter // Feature updates rejected by validation

	// Dashboard metrics
	WSClients prometheus.Gauge // Currently connected WebSocket clients
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of prediction requests issued",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of application-level prediction failures",
		}),
		TransportErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_transport_errors_total",
			Help: "Total number of prediction requests that never completed",
		}),
		DuplicateRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_duplicates_total",
			Help: "Total number of predict calls ignored while a request was in flight",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
		PredictedQuality: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "predicted_quality",
			Help:    "Distribution of quality scores returned by the prediction service",
			Buckets: prometheus.LinearBuckets(3, 0.5, 13),
		}),
		FeatureRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "feature_rejections_total",
			Help: "Total number of feature updates rejected by validation",
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ws_clients",
			Help: "Currently connected dashboard WebSocket clients",
		}),
	}
}
