package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drought_monitor"

// Metrics holds the Prometheus collectors for the dashboard service.
type Metrics struct {
	// Earth Engine metrics.
	EERequests *prometheus.CounterVec   // labels: operation={timestamps,size,map}, outcome={success,error}
	EEDuration *prometheus.HistogramVec // labels: operation

	// Cache metrics.
	WindowCache *prometheus.CounterVec // labels: result={hit,miss}
	MapCache    *prometheus.CounterVec // labels: result={hit,miss}

	SeriesLoads *prometheus.CounterVec // labels: outcome={success,not_found,missing_column,error}
	Exports     prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EERequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "earthengine_requests_total",
			Help:      "Earth Engine API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		EEDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "earthengine_request_duration_seconds",
			Help:      "Earth Engine API call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		WindowCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_cache_total",
			Help:      "Dataset window memo lookups by result.",
		}, []string{"result"}),
		MapCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_cache_total",
			Help:      "Map id cache lookups by result.",
		}, []string{"result"}),
		SeriesLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_loads_total",
			Help:      "Division series loads by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports written.",
		}),
	}

	prometheus.MustRegister(
		m.EERequests,
		m.EEDuration,
		m.WindowCache,
		m.MapCache,
		m.SeriesLoads,
		m.Exports,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EERequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "earthengine_requests_total"}, []string{"operation", "outcome"}),
		EEDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "earthengine_request_duration_seconds"}, []string{"operation"}),
		WindowCache: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "window_cache_total"}, []string{"result"}),
		MapCache:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "map_cache_total"}, []string{"result"}),
		SeriesLoads: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "series_loads_total"}, []string{"outcome"}),
		Exports:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "exports_total"}),
	}
}
